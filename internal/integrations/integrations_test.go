package integrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

func TestAzureIntegrationServiceURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		integ   config.AzureBlobStorageIntegrationConfig
		want    string
		wantErr bool
	}{
		{
			name:  "account name with default host",
			integ: config.AzureBlobStorageIntegrationConfig{AccountName: "myaccount"},
			want:  "https://myaccount.blob.core.windows.net/",
		},
		{
			name:  "custom host",
			integ: config.AzureBlobStorageIntegrationConfig{AccountName: "myaccount", Host: "blob.core.chinacloudapi.cn"},
			want:  "https://myaccount.blob.core.chinacloudapi.cn/",
		},
		{
			name:  "endpoint wins and is normalised",
			integ: config.AzureBlobStorageIntegrationConfig{AccountName: "devstoreaccount1", Endpoint: "http://127.0.0.1:10000/devstoreaccount1//"},
			want:  "http://127.0.0.1:10000/devstoreaccount1/",
		},
		{
			name: "connection string with account",
			integ: config.AzureBlobStorageIntegrationConfig{
				ConnectionString: "DefaultEndpointsProtocol=https;AccountName=csaccount;AccountKey=a2V5;EndpointSuffix=core.windows.net",
			},
			want: "https://csaccount.blob.core.windows.net/",
		},
		{
			name: "connection string with blob endpoint",
			integ: config.AzureBlobStorageIntegrationConfig{
				ConnectionString: "AccountName=devstoreaccount1;AccountKey=a2V5;BlobEndpoint=http://azurite:10000/devstoreaccount1",
			},
			want: "http://azurite:10000/devstoreaccount1/",
		},
		{
			name:    "no account",
			integ:   config.AzureBlobStorageIntegrationConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			integ := &AzureBlobStorageIntegration{AzureBlobStorageIntegrationConfig: tt.integ}
			got, err := integ.ServiceURL()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAzureIntegrationCredentialKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AzureCredentialConnectionString, (&AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{
			ConnectionString: "x", AccountKey: "k", SasToken: "s",
		},
	}).CredentialKind())
	assert.Equal(t, AzureCredentialAccountKey, (&AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{AccountKey: "k", SasToken: "s"},
	}).CredentialKind())
	assert.Equal(t, AzureCredentialSASToken, (&AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{SasToken: "s"},
	}).CredentialKind())
	assert.Equal(t, AzureCredentialClientSecret, (&AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{
			AADCredential: &config.AADCredentialConfig{TenantID: "t", ClientID: "c", ClientSecret: "s"},
		},
	}).CredentialKind())
	assert.Equal(t, AzureCredentialDefault, (&AzureBlobStorageIntegration{}).CredentialKind())
}

func TestAzureIntegrationsResolve(t *testing.T) {
	t.Parallel()

	integs := NewAzureIntegrations([]config.AzureBlobStorageIntegrationConfig{
		{AccountName: "myaccount", AccountKey: "a2V5"},
		{AccountName: "sovereign", Host: "blob.core.usgovcloudapi.net", SasToken: "sv=1"},
	})

	t.Run("by account name", func(t *testing.T) {
		t.Parallel()
		got, err := integs.Resolve("MyAccount", "")
		require.NoError(t, err)
		assert.Equal(t, "a2V5", got.AccountKey)
		assert.Equal(t, config.DefaultAzureBlobHost, got.GetHost())
	})

	t.Run("instance host overrides integration host", func(t *testing.T) {
		t.Parallel()
		got, err := integs.Resolve("myaccount", "blob.example.test")
		require.NoError(t, err)
		assert.Equal(t, "blob.example.test", got.GetHost())
	})

	t.Run("unknown account falls back to default credentials", func(t *testing.T) {
		t.Parallel()
		got, err := integs.Resolve("other", "")
		require.NoError(t, err)
		assert.Equal(t, "other", got.AccountName)
		assert.Equal(t, AzureCredentialDefault, got.CredentialKind())
	})

	t.Run("by host", func(t *testing.T) {
		t.Parallel()
		got, err := integs.Resolve("", "blob.core.usgovcloudapi.net")
		require.NoError(t, err)
		assert.Equal(t, "sovereign", got.AccountName)
	})

	t.Run("default host", func(t *testing.T) {
		t.Parallel()
		got, err := integs.Resolve("", "")
		require.NoError(t, err)
		assert.Equal(t, "myaccount", got.AccountName)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, err := NewAzureIntegrations(nil).Resolve("", "")
		require.ErrorContains(t, err, "no azureBlobStorage integration found for host blob.core.windows.net")
	})
}

func TestAzureIntegrationNewClient(t *testing.T) {
	t.Parallel()

	integ := &AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{
			AccountName: "myaccount",
			SasToken:    "?sv=2024-01-01&sig=abc",
		},
	}
	client, err := integ.NewClient()
	require.NoError(t, err)
	assert.Contains(t, client.URL(), "https://myaccount.blob.core.windows.net/")

	integ = &AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{
			AccountName: "myaccount",
			AccountKey:  "not base64!",
		},
	}
	_, err = integ.NewClient()
	require.Error(t, err)
}

func TestAwsIntegrationsResolve(t *testing.T) {
	t.Parallel()

	integs := NewAwsIntegrations([]config.AwsS3IntegrationConfig{
		{Host: "s3.amazonaws.com", AccessKeyID: "AKIA", SecretAccessKey: "secret"},
		{Endpoint: "http://minio.local:9000", AccessKeyID: "minio", SecretAccessKey: "minio123", S3ForcePathStyle: true},
	})

	got := integs.Resolve("")
	assert.Equal(t, "AKIA", got.AccessKeyID)
	assert.True(t, got.HasStaticCredentials())

	got = integs.Resolve("http://minio.local:9000")
	assert.Equal(t, "minio", got.AccessKeyID)
	assert.True(t, got.S3ForcePathStyle)

	got = integs.Resolve("https://storage.example.test")
	assert.False(t, got.HasStaticCredentials())
	assert.Equal(t, "https://storage.example.test", got.Endpoint)
}

func TestBucketURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://my-bucket.s3.eu-west-1.amazonaws.com/", BucketURL("my-bucket", "eu-west-1", ""))
	assert.Equal(t, "https://my-bucket.s3.amazonaws.com/", BucketURL("my-bucket", "", ""))
	assert.Equal(t, "http://minio.local:9000/my-bucket/", BucketURL("my-bucket", "us-east-1", "http://minio.local:9000/"))
}
