package identity

// Capability is a named, independently grantable permission string.
// The catalogue is closed; the permission editor only ever offers entries
// from it, grouped by display category.
type Capability string

const (
	// CapManageEmployees allows managing employee records.
	CapManageEmployees Capability = "manage_employees"
	// CapViewPayroll allows viewing payroll data.
	CapViewPayroll Capability = "view_payroll"
	// CapBroadcastMessages allows sending broadcast messages.
	CapBroadcastMessages Capability = "broadcast_messages"
	// CapViewAuditLogs allows viewing the audit log console.
	CapViewAuditLogs Capability = "view_audit_logs"
	// CapManageAttendance allows managing attendance records.
	CapManageAttendance Capability = "manage_attendance"
	// CapViewAnalytics allows viewing the analytics dashboard.
	CapViewAnalytics Capability = "view_analytics"
)

// Category groups capabilities for the permission-editing view.
type Category string

const (
	// CategoryCore groups the day-to-day management capabilities.
	CategoryCore Category = "Core"
	// CategoryFinance groups payroll related capabilities.
	CategoryFinance Category = "Finance"
	// CategorySecurity groups audit and security capabilities.
	CategorySecurity Category = "Security"
	// CategoryAdvanced groups analytics and broadcast capabilities.
	CategoryAdvanced Category = "Advanced"
)

// catalog maps every capability to its display category.
var catalog = map[Capability]Category{
	CapManageEmployees:   CategoryCore,
	CapManageAttendance:  CategoryCore,
	CapViewPayroll:       CategoryFinance,
	CapViewAuditLogs:     CategorySecurity,
	CapBroadcastMessages: CategoryAdvanced,
	CapViewAnalytics:     CategoryAdvanced,
}

// catalogOrder fixes the display order of the catalogue.
var catalogOrder = []Capability{
	CapManageEmployees,
	CapManageAttendance,
	CapViewPayroll,
	CapViewAuditLogs,
	CapBroadcastMessages,
	CapViewAnalytics,
}

// Valid reports whether the capability is part of the closed catalogue.
func (c Capability) Valid() bool {
	_, ok := catalog[c]
	return ok
}

// CategoryOf returns the display category of a capability.
// Unknown capabilities return the empty category.
func (c Capability) CategoryOf() Category {
	return catalog[c]
}

// Catalog returns the capability catalogue in display order.
func Catalog() []Capability {
	out := make([]Capability, len(catalogOrder))
	copy(out, catalogOrder)

	return out
}

// CatalogByCategory returns the catalogue grouped for the permission editor.
// Group order follows the first appearance in the display order.
func CatalogByCategory() map[Category][]Capability {
	out := make(map[Category][]Capability, 4) //nolint:mnd
	for _, c := range catalogOrder {
		cat := catalog[c]
		out[cat] = append(out[cat], c)
	}

	return out
}

// ParsePermissions filters a backend permission list down to catalogue
// entries. Unknown strings are dropped, not rejected; the evaluator would
// deny them anyway.
func ParsePermissions(in []string) []Capability {
	out := make([]Capability, 0, len(in))

	for _, s := range in {
		if c := Capability(s); c.Valid() {
			out = append(out, c)
		}
	}

	return out
}
