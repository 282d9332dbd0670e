package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk/internal/identity"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(srv.URL, "test-key", time.Second)
}

func TestLogin(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@corp.test", body["email"])

		_ = json.NewEncoder(w).Encode(Employee{
			ID:          "E100",
			Name:        "Jane",
			Role:        "Employee",
			Permissions: []string{"view_payroll", "not_a_capability"},
			Active:      true,
		})
	})

	emp, err := client.Login(context.Background(), "jane@corp.test", "secret")
	require.NoError(t, err)

	id := emp.Identity()
	assert.Equal(t, "E100", id.ID)
	assert.Equal(t, identity.RoleEmployee, id.Role)
	// unknown permission strings are dropped on the way in
	assert.Equal(t, []identity.Capability{identity.CapViewPayroll}, id.Permissions)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "jane@corp.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEmployee_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Employee(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifications(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "E100", r.URL.Query().Get("employeeId"))

		_ = json.NewEncoder(w).Encode([]Notification{
			{ID: "n1", Title: "Payslip", Category: "Info", Read: false},
			{ID: "n2", Title: "Meeting", Category: "Message", Read: true},
		})
	})

	list, err := client.Notifications(context.Background(), "E100")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n1", list[0].ID)
	assert.False(t, list[0].Read)
}

func TestUpdatePermissions(t *testing.T) {
	var got PermissionsUpdate

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/employees/E100/permissions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdatePermissions(context.Background(), "E100", PermissionsUpdate{
		Permissions: []string{"view_payroll"},
		Role:        "Employee",
		Active:      false,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"view_payroll"}, got.Permissions)
	assert.False(t, got.Active)
}

func TestDo_ServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.MarkNotificationRead(context.Background(), "n1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDo_ContextCancelled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Employees(ctx)
	assert.Error(t, err)
}
