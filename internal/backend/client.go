// Package backend implements the typed HTTP client for the external HR
// backend API. Every business operation of the portal (employee records,
// notifications, authentication, permission edits) round-trips through this
// client; the portal itself persists nothing but sessions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// API is the backend surface the portal consumes. Handlers and services
// accept this interface so tests can substitute a fake backend.
type API interface {
	Login(ctx context.Context, email, password string) (*Employee, error)
	Logout(ctx context.Context, employeeID string) error
	Employee(ctx context.Context, id string) (*Employee, error)
	Notifications(ctx context.Context, employeeID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, employeeID string) error
	UpdatePermissions(ctx context.Context, employeeID string, update PermissionsUpdate) error
	Employees(ctx context.Context) ([]Employee, error)
}

// Client talks to the HR backend API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ API = (*Client)(nil)

// New creates a backend client for the given base URL.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Login authenticates the email/password pair against the backend and
// returns the resolved employee record.
func (c *Client) Login(ctx context.Context, email, password string) (*Employee, error) {
	body := map[string]string{"email": email, "password": password}

	var emp Employee
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &emp); err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	return &emp, nil
}

// Logout tells the backend the employee signed out. Best effort; the portal
// session is already gone when this is called.
func (c *Client) Logout(ctx context.Context, employeeID string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", map[string]string{"employeeId": employeeID}, nil)
}

// Employee fetches one employee record.
func (c *Client) Employee(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	if err := c.do(ctx, http.MethodGet, "/employees/"+id, nil, &emp); err != nil {
		return nil, err
	}

	return &emp, nil
}

// Employees lists all employee records, used by the permission editor.
func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Notifications fetches the server-origin notifications of an employee.
func (c *Client) Notifications(ctx context.Context, employeeID string) ([]Notification, error) {
	var out []Notification
	if err := c.do(ctx, http.MethodGet, "/notifications?employeeId="+employeeID, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// MarkNotificationRead flips one server-origin notification to read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllNotificationsRead flips every notification of the employee to read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, employeeID string) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all?employeeId="+employeeID, nil, nil)
}

// UpdatePermissions replaces the permission set, role and active flag of an
// employee. The caller is responsible for fanning the change out to the
// affected identity via the realtime hub.
func (c *Client) UpdatePermissions(ctx context.Context, employeeID string, update PermissionsUpdate) error {
	return c.do(ctx, http.MethodPut, "/employees/"+employeeID+"/permissions", update, nil)
}

// do performs one backend round trip with JSON encoding on both sides.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode backend request body")
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build backend request")
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "backend request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.Wrap(ErrForbidden, fmt.Sprintf("%s %s", method, path))
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(ErrNotFound, fmt.Sprintf("%s %s", method, path))
	case resp.StatusCode >= http.StatusBadRequest:
		return errors.Errorf("backend %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode backend response")
	}

	return nil
}
