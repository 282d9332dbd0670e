package broadcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/realtime"
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

func newTestHub(t *testing.T) *realtime.Hub {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = rdb.Close() })

	hub := realtime.NewHub(rdb)
	t.Cleanup(hub.Close)

	return hub
}

func newTestApp(t *testing.T, hub *realtime.Hub) *fiber.App {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	cfg := &config.Config{Title: "StaffDesk"}
	app := fiber.New()

	svc := &Service{}
	require.NoError(t, svc.Init(app, cfg, &handler.Deps{Hub: hub}))

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

func post(t *testing.T, app *fiber.App, target, sessionID, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func listen(t *testing.T, hub *realtime.Hub, identityID string, et realtime.EventType) chan realtime.Event {
	t.Helper()

	conn, err := hub.Connect(context.Background(), identityID)
	require.NoError(t, err)

	received := make(chan realtime.Event, 1)
	conn.Subscribe(et, func(ev realtime.Event) {
		received <- ev
	})

	return received
}

func TestBroadcast_CapabilityHolder(t *testing.T) {
	hub := newTestHub(t)
	app := newTestApp(t, hub)

	target := listen(t, hub, "E1", realtime.EventBroadcastAlert)
	bystander := listen(t, hub, "E9", realtime.EventBroadcastAlert)

	// an HR sender holding broadcast_messages, no admin role involved
	sessionID := signIn(t, identity.Identity{
		ID:          "H1",
		Role:        identity.RoleHR,
		Permissions: []identity.Capability{identity.CapBroadcastMessages},
		Active:      true,
	})

	resp := post(t, app, Path, sessionID, `{"title":"All hands Friday","recipients":["E1"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case ev := <-target:
		require.NotNil(t, ev.Broadcast)
		assert.Equal(t, "All hands Friday", ev.Broadcast.Title)
		assert.Equal(t, []string{"E1"}, ev.Broadcast.Recipients)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast was not delivered")
	}

	select {
	case <-bystander:
		t.Fatal("broadcast leaked to an unlisted recipient")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcast_WithoutCapability(t *testing.T) {
	hub := newTestHub(t)
	app := newTestApp(t, hub)

	sessionID := signIn(t, identity.Identity{ID: "E1", Role: identity.RoleEmployee, Active: true})

	resp := post(t, app, Path, sessionID, `{"title":"All hands Friday"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBroadcast_AdminBypass(t *testing.T) {
	hub := newTestHub(t)
	app := newTestApp(t, hub)

	received := listen(t, hub, "E1", realtime.EventBroadcastAlert)

	// admins need no explicit grant
	sessionID := signIn(t, identity.Identity{ID: "A1", Role: identity.RoleAdmin, Active: true})

	resp := post(t, app, Path, sessionID, `{"title":"Office closed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case ev := <-received:
		assert.Equal(t, "Office closed", ev.Broadcast.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast was not delivered")
	}
}

func TestAlert_Targeted(t *testing.T) {
	hub := newTestHub(t)
	app := newTestApp(t, hub)

	received := listen(t, hub, "E1", realtime.EventAdminAlert)

	resp := post(t, app, AlertPath, "", `{"recipientId":"E1","message":"badge expires soon"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case ev := <-received:
		require.NotNil(t, ev.Alert)
		assert.Equal(t, "badge expires soon", ev.Alert.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not delivered")
	}
}

func TestValidation(t *testing.T) {
	app := newTestApp(t, newTestHub(t))

	sessionID := signIn(t, identity.Identity{
		ID:          "H1",
		Role:        identity.RoleHR,
		Permissions: []identity.Capability{identity.CapBroadcastMessages},
		Active:      true,
	})

	assert.Equal(t, http.StatusBadRequest, post(t, app, Path, sessionID, `{}`).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, post(t, app, Path, "", `{"title":"x"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, app, AlertPath, "", `{"message":"x"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, app, AlertPath, "", `not json`).StatusCode)
}
