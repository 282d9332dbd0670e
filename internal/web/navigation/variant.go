package navigation

import (
	"github.com/staffdesk/staffdesk/internal/identity"
)

// Variant identifies which dashboard landing page the portal renders.
type Variant string

const (
	// VariantHR is the HR operations dashboard.
	VariantHR Variant = "hr"
	// VariantAdmin is the admin/manager dashboard.
	VariantAdmin Variant = "admin"
	// VariantEmployee is the personal dashboard.
	VariantEmployee Variant = "employee"
)

// SelectVariant chooses the dashboard variant for the identity.
// HR is checked before the broader admin-like set; only Admin, SuperAdmin
// and Manager fall through to the admin variant. The precedence is part of
// the portal contract and must not be reordered.
func SelectVariant(id *identity.Identity) Variant {
	if id == nil {
		return VariantEmployee
	}

	if id.Role == identity.RoleHR {
		return VariantHR
	}

	if id.Role.IsHRLike() {
		return VariantAdmin
	}

	return VariantEmployee
}
