package navigation

import (
	"github.com/staffdesk/staffdesk/internal/identity"
)

// Entry represents a single portal menu item. Entries without a required
// capability are always shown; gated entries are shown only when the
// permission evaluator grants the capability to the current identity.
type Entry struct {
	Label    string              `json:"label"`
	Route    string              `json:"route"`
	Icon     string              `json:"icon"`
	Requires identity.Capability `json:"-"`
}

// Base entries, always visible, in fixed order.
var baseEntries = []Entry{
	{Label: "Dashboard", Route: "/dashboard", Icon: "home"},
	{Label: "Tasks", Route: "/tasks", Icon: "check-square"},
	{Label: "Broadcasts", Route: "/broadcasts", Icon: "megaphone"},
	{Label: "Chat", Route: "/chat", Icon: "message-circle"},
	{Label: "Calendar", Route: "/calendar", Icon: "calendar"},
}

// Capability-gated entries, appended in fixed priority order after the base
// list. The order is significant and part of the portal contract.
var gatedEntries = []Entry{
	{Label: "Employees", Route: "/employees", Icon: "users", Requires: identity.CapManageEmployees},
	{Label: "Attendance", Route: "/attendance", Icon: "clock", Requires: identity.CapManageAttendance},
	{Label: "Payroll", Route: "/payroll", Icon: "credit-card", Requires: identity.CapViewPayroll},
	{Label: "Analytics", Route: "/analytics", Icon: "bar-chart", Requires: identity.CapViewAnalytics},
	{Label: "Audit Logs", Route: "/audit-logs", Icon: "shield", Requires: identity.CapViewAuditLogs},
}

// permissionsEntry is appended for admin-like roles only.
var permissionsEntry = Entry{Label: "Permissions", Route: "/admin/permissions", Icon: "key"}

// salaryEntry is appended for Employee and TeamLead roles only.
var salaryEntry = Entry{Label: "My Salary", Route: "/my-salary", Icon: "wallet"}

// Build composes the ordered navigation menu for the given identity.
// It is a pure function of the identity; a nil identity yields no menu.
func Build(id *identity.Identity) []Entry {
	if id == nil {
		return nil
	}

	out := make([]Entry, 0, len(baseEntries)+len(gatedEntries)+2) //nolint:mnd
	out = append(out, baseEntries...)

	for _, e := range gatedEntries {
		if identity.HasCapability(id, e.Requires) {
			out = append(out, e)
		}
	}

	if id.Role.IsAdminLike() {
		out = append(out, permissionsEntry)
	}

	if id.Role.SalaryVisible() {
		out = append(out, salaryEntry)
	}

	return out
}
