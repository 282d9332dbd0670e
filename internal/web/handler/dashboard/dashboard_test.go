package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/notifications"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	websess "github.com/staffdesk/staffdesk/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[key], nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = val

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

// fakeBackend serves the notification aggregation behind the dashboard.
type fakeBackend struct {
	backend.API
	notifications []backend.Notification
	employee      *backend.Employee
}

func (f *fakeBackend) Notifications(context.Context, string) ([]backend.Notification, error) {
	return f.notifications, nil
}

func (f *fakeBackend) Employee(context.Context, string) (*backend.Employee, error) {
	return f.employee, nil
}

func newTestApp(t *testing.T, be backend.API) *fiber.App {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	cfg := &config.Config{Title: "StaffDesk"}
	cfg.Webserver.Session.ExpiryTime = time.Hour

	app := fiber.New()

	svc := &Service{}
	require.NoError(t, svc.Init(app, cfg, &handler.Deps{
		Backend:       be,
		Notifications: notifications.New(be),
	}))

	return app
}

func signIn(t *testing.T, id identity.Identity) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	sessData := &websess.Data{Identity: id}
	require.NoError(t, sessData.Write(sessionID, time.Hour))

	return sessionID
}

func getDashboard(t *testing.T, app *fiber.App, sessionID string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]any
	if resp.StatusCode == http.StatusOK {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	return resp, body
}

func TestGet_EmployeeVariant(t *testing.T) {
	be := &fakeBackend{
		employee: &backend.Employee{ID: "E1", Role: "Employee", Active: true, ProfileImage: "p.jpg"},
	}
	app := newTestApp(t, be)

	sessionID := signIn(t, identity.Identity{ID: "E1", Role: identity.RoleEmployee, Active: true})

	resp, body := getDashboard(t, app, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "employee", body["variant"])

	menu := body["navigation"].(map[string]any)["menu"].([]any)
	labels := make([]string, 0, len(menu))

	for _, e := range menu {
		labels = append(labels, e.(map[string]any)["label"].(string))
	}

	assert.Equal(t, []string{"Dashboard", "Tasks", "Broadcasts", "Chat", "Calendar", "My Salary"}, labels)
}

func TestGet_HRVariantWins(t *testing.T) {
	be := &fakeBackend{
		employee: &backend.Employee{ID: "H1", Role: "HR", Active: true, ProfileImage: "p.jpg"},
	}
	app := newTestApp(t, be)

	sessionID := signIn(t, identity.Identity{ID: "H1", Role: identity.RoleHR, Active: true})

	resp, body := getDashboard(t, app, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// HR outranks the admin-style variant
	assert.Equal(t, "hr", body["variant"])
}

func TestGet_BadgeCountsUnread(t *testing.T) {
	be := &fakeBackend{
		employee: &backend.Employee{ID: "E1", Role: "Employee", Active: true, ProfileImage: "p.jpg"},
		notifications: []backend.Notification{
			{ID: "n1", Read: false},
			{ID: "n2", Read: true},
			{ID: "n3", Read: false},
		},
	}
	app := newTestApp(t, be)

	sessionID := signIn(t, identity.Identity{ID: "E1", Role: identity.RoleEmployee, Active: true})

	resp, body := getDashboard(t, app, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	badge := body["badge"].(map[string]any)
	assert.Equal(t, float64(2), badge["unread"])
	assert.Equal(t, "2", badge["label"])
}

func TestGet_NoSession(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	resp, _ := getDashboard(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
