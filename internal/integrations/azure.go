// Package integrations resolves connection settings and credentials for the
// cloud storage services entity providers read from.
package integrations

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// Azure credential kinds, in order of precedence
const (
	AzureCredentialConnectionString = "connectionString"
	AzureCredentialAccountKey       = "accountKey"
	AzureCredentialSASToken         = "sasToken"
	AzureCredentialClientSecret     = "clientSecret"
	AzureCredentialDefault          = "default"
)

// AzureBlobStorageIntegration is a resolved storage account connection
type AzureBlobStorageIntegration struct {
	config.AzureBlobStorageIntegrationConfig
}

// GetHost returns the blob service host, defaulting to blob.core.windows.net
func (i *AzureBlobStorageIntegration) GetHost() string {
	if i.Host == "" {
		return config.DefaultAzureBlobHost
	}
	return i.Host
}

// CredentialKind reports which credential NewClient will use
func (i *AzureBlobStorageIntegration) CredentialKind() string {
	switch {
	case i.ConnectionString != "":
		return AzureCredentialConnectionString
	case i.AccountKey != "":
		return AzureCredentialAccountKey
	case i.SasToken != "":
		return AzureCredentialSASToken
	case i.AADCredential != nil:
		return AzureCredentialClientSecret
	default:
		return AzureCredentialDefault
	}
}

// ServiceURL returns the blob service URL with a single trailing slash and no credentials in it
func (i *AzureBlobStorageIntegration) ServiceURL() (string, error) {
	if i.Endpoint != "" {
		return withTrailingSlash(i.Endpoint), nil
	}

	if i.ConnectionString != "" {
		return serviceURLFromConnectionString(i.ConnectionString)
	}

	if i.AccountName == "" {
		return "", fmt.Errorf("accountName is required to build the blob service URL")
	}

	return fmt.Sprintf("https://%s.%s/", i.AccountName, i.GetHost()), nil
}

// NewClient builds a blob service client using the first configured credential
func (i *AzureBlobStorageIntegration) NewClient() (*azblob.Client, error) {
	kind := i.CredentialKind()
	if kind == AzureCredentialConnectionString {
		client, err := azblob.NewClientFromConnectionString(i.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client from connection string: %w", err)
		}
		return client, nil
	}

	serviceURL, err := i.ServiceURL()
	if err != nil {
		return nil, err
	}

	switch kind {
	case AzureCredentialAccountKey:
		cred, err := azblob.NewSharedKeyCredential(i.AccountName, i.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("invalid shared key for account %s: %w", i.AccountName, err)
		}
		return azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)

	case AzureCredentialSASToken:
		return azblob.NewClientWithNoCredential(serviceURL+"?"+strings.TrimPrefix(i.SasToken, "?"), nil)

	case AzureCredentialClientSecret:
		cred, err := azidentity.NewClientSecretCredential(
			i.AADCredential.TenantID, i.AADCredential.ClientID, i.AADCredential.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create client secret credential: %w", err)
		}
		return azblob.NewClient(serviceURL, cred, nil)

	default:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
		}
		return azblob.NewClient(serviceURL, cred, nil)
	}
}

// AzureIntegrations looks up configured storage accounts
type AzureIntegrations struct {
	integrations []config.AzureBlobStorageIntegrationConfig
}

// NewAzureIntegrations wraps the configured Azure integrations
func NewAzureIntegrations(integrations []config.AzureBlobStorageIntegrationConfig) *AzureIntegrations {
	return &AzureIntegrations{integrations: integrations}
}

// Lookup returns the integration for an account name
func (a *AzureIntegrations) Lookup(accountName string) (*AzureBlobStorageIntegration, bool) {
	for _, integ := range a.integrations {
		if strings.EqualFold(integ.AccountName, accountName) {
			return &AzureBlobStorageIntegration{AzureBlobStorageIntegrationConfig: integ}, true
		}
	}
	return nil, false
}

// LookupByHost returns the first integration for a blob service host
func (a *AzureIntegrations) LookupByHost(host string) (*AzureBlobStorageIntegration, bool) {
	for _, integ := range a.integrations {
		candidate := &AzureBlobStorageIntegration{AzureBlobStorageIntegrationConfig: integ}
		if strings.EqualFold(candidate.GetHost(), host) {
			return candidate, true
		}
	}
	return nil, false
}

// Resolve picks the connection for a provider instance. An explicit account name selects the
// matching integration, or the default credential chain when none is configured. Without an
// account name the integration for the host is required. The instance host always wins.
func (a *AzureIntegrations) Resolve(accountName, host string) (*AzureBlobStorageIntegration, error) {
	if accountName != "" {
		integ, ok := a.Lookup(accountName)
		if !ok {
			integ = &AzureBlobStorageIntegration{
				AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{AccountName: accountName},
			}
		}
		if host != "" {
			integ.Host = host
		}
		return integ, nil
	}

	lookupHost := host
	if lookupHost == "" {
		lookupHost = config.DefaultAzureBlobHost
	}

	integ, ok := a.LookupByHost(lookupHost)
	if !ok {
		return nil, fmt.Errorf("no accountName configured and no azureBlobStorage integration found for host %s", lookupHost)
	}
	if host != "" {
		integ.Host = host
	}
	return integ, nil
}

// serviceURLFromConnectionString derives the blob endpoint from a storage connection string
func serviceURLFromConnectionString(connectionString string) (string, error) {
	values := map[string]string{}
	for _, part := range strings.Split(connectionString, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		values[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	if endpoint := values["blobendpoint"]; endpoint != "" {
		return withTrailingSlash(endpoint), nil
	}

	account := values["accountname"]
	if account == "" {
		return "", fmt.Errorf("connection string has neither BlobEndpoint nor AccountName")
	}

	protocol := values["defaultendpointsprotocol"]
	if protocol == "" {
		protocol = "https"
	}
	suffix := values["endpointsuffix"]
	if suffix == "" {
		suffix = "core.windows.net"
	}

	return fmt.Sprintf("%s://%s.blob.%s/", protocol, account, suffix), nil
}

func withTrailingSlash(u string) string {
	return strings.TrimRight(u, "/") + "/"
}
