package notifications

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/staffdesk/staffdesk/internal/backend"
)

// Service aggregates backend notifications for one identity.
type Service struct {
	backend backend.API
	now     func() time.Time
}

// New creates the aggregation service.
func New(api backend.API) *Service {
	return &Service{
		backend: api,
		now:     time.Now,
	}
}

// Load fetches the notifications and the profile of the employee
// concurrently and merges in the synthetic photo notification when the
// profile has no photo. Synthetic entries are prepended before the server
// list and never persisted.
func (s *Service) Load(ctx context.Context, employeeID string) ([]Notification, error) {
	var (
		records []backend.Notification
		profile *backend.Employee
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.backend.Notifications(gctx, employeeID)

		return err
	})

	g.Go(func() error {
		var err error
		profile, err = s.backend.Employee(gctx, employeeID)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(records)+1)

	if profile.ProfileImage == "" {
		out = append(out, syntheticPhotoNotification(s.now()))
	}

	for _, r := range records {
		out = append(out, Notification{
			ID:        r.ID,
			Title:     r.Title,
			Message:   r.Message,
			Category:  Category(r.Category),
			Read:      r.Read,
			CreatedAt: r.CreatedAt,
			Origin:    OriginServer,
		})
	}

	return out, nil
}

// MarkRead flips one notification to read. The synthetic id is a no-op:
// its entry disappears only when the profile photo is supplied, which
// removes it from the next load, never through this call.
func (s *Service) MarkRead(ctx context.Context, list []Notification, id string) ([]Notification, error) {
	if id == SyntheticPhotoID {
		return list, nil
	}

	if err := s.backend.MarkNotificationRead(ctx, id); err != nil {
		return list, err
	}

	out := make([]Notification, len(list))
	copy(out, list)

	for i := range out {
		if out[i].ID == id && out[i].Origin == OriginServer {
			out[i].Read = true
		}
	}

	return out, nil
}

// MarkAllRead flips every server-origin notification to read via the
// backend read-all operation. Synthetic entries stay unread.
func (s *Service) MarkAllRead(ctx context.Context, list []Notification, employeeID string) ([]Notification, error) {
	if err := s.backend.MarkAllNotificationsRead(ctx, employeeID); err != nil {
		return list, err
	}

	out := make([]Notification, len(list))
	copy(out, list)

	for i := range out {
		switch out[i].Origin {
		case OriginServer:
			out[i].Read = true
		case OriginSynthetic:
			// stays unread until the profile photo exists
		}
	}

	return out, nil
}

// LoadSilent wraps Load for background refreshes: failures are logged and
// the previous state is left in place, matching the portal's silent
// background fetch policy.
func (s *Service) LoadSilent(ctx context.Context, employeeID string, prev []Notification) []Notification {
	list, err := s.Load(ctx, employeeID)
	if err != nil {
		log.Debug().Err(err).Str("employee_id", employeeID).Msg("background notification refresh failed")

		return prev
	}

	return list
}
