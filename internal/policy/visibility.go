// Package policy decides which catalog records a caller may see.
//
// Soft-deleted records are never eligible. Hidden records are eligible only for
// admins. The same Scope drives both the in-memory predicate and the SQL filter
// used by the repository.
package policy

import (
	"fmt"

	"storefront/internal/domain"
)

// Flagged is any record carrying visibility flags
type Flagged interface {
	IsVisible() bool
	IsDeleted() bool
}

// Scope is the set of records a query may return
type Scope struct {
	IncludeHidden bool
}

var (
	// Shopper excludes deleted and hidden records
	Shopper = Scope{IncludeHidden: false}
	// Admin excludes deleted records only
	Admin = Scope{IncludeHidden: true}
)

// For returns the scope granted to a role
func For(role domain.Role) Scope {
	if role == domain.RoleAdmin {
		return Admin
	}
	return Shopper
}

// ForPrincipal returns the scope granted to a principal
func ForPrincipal(p domain.Principal) Scope {
	return For(p.Role)
}

// Allows reports whether a record is eligible under the scope
func (s Scope) Allows(r Flagged) bool {
	if r.IsDeleted() {
		return false
	}
	if s.IncludeHidden {
		return true
	}
	return r.IsVisible()
}

// Clause renders the scope as a SQL predicate over the given table alias
func (s Scope) Clause(alias string) string {
	if s.IncludeHidden {
		return fmt.Sprintf("%s.deleted = FALSE", alias)
	}
	return fmt.Sprintf("%s.deleted = FALSE AND %s.visible = TRUE", alias, alias)
}

// IsEligible reports whether a record is eligible for a role
func IsEligible(r Flagged, role domain.Role) bool {
	return For(role).Allows(r)
}

// FilterVariants keeps the variants the scope allows, preserving order
func (s Scope) FilterVariants(variants []domain.ProductVariant) []domain.ProductVariant {
	kept := make([]domain.ProductVariant, 0, len(variants))
	for i := range variants {
		if s.Allows(&variants[i]) {
			kept = append(kept, variants[i])
		}
	}
	return kept
}
