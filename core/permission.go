package core

// PermissionScope is a single capability a dApp may be granted.
type PermissionScope string

const (
	// ScopeIdentityRead allows reading the wallet's public identity.
	// Every grant includes it implicitly.
	ScopeIdentityRead PermissionScope = "identity-read"

	// ScopeBalanceRead allows reading balances.
	ScopeBalanceRead PermissionScope = "balance-read"

	// ScopeTransferRequest allows requesting transfers.
	ScopeTransferRequest PermissionScope = "transfer-request"

	// ScopeSignRequest allows requesting message signatures.
	ScopeSignRequest PermissionScope = "sign-request"

	// ScopeDMRequest allows requesting direct messages.
	ScopeDMRequest PermissionScope = "dm-request"
)

// KnownScope reports whether s is one of the enumerated scopes.
func KnownScope(s PermissionScope) bool {
	switch s {
	case ScopeIdentityRead, ScopeBalanceRead, ScopeTransferRequest, ScopeSignRequest, ScopeDMRequest:
		return true
	}
	return false
}

// NormalizePermissions deduplicates scopes, drops unknown ones and adds
// ScopeIdentityRead, which every grant carries whether or not the
// resolution included it.
func NormalizePermissions(scopes []PermissionScope) []PermissionScope {
	seen := map[PermissionScope]bool{ScopeIdentityRead: true}
	normalized := []PermissionScope{ScopeIdentityRead}
	for _, s := range scopes {
		if seen[s] || !KnownScope(s) {
			continue
		}
		seen[s] = true
		normalized = append(normalized, s)
	}
	return normalized
}

// HasScope reports whether scopes contains s.
func HasScope(scopes []PermissionScope, s PermissionScope) bool {
	for _, scope := range scopes {
		if scope == s {
			return true
		}
	}
	return false
}
