package authz

// defaultPolicies check principal.grantedActions, which is filled from the scope mapping,
// so custom scope names work without custom policies.
const defaultPolicies = `
permit(
  principal,
  action == ToolHive::Catalog::Action::"read",
  resource
) when {
  principal.grantedActions.contains("read")
};

permit(
  principal,
  action == ToolHive::Catalog::Action::"refresh",
  resource
) when {
  principal.grantedActions.contains("refresh")
};
`
