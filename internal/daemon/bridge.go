package daemon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/staffdesk/staffdesk/internal/db/models"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

// bridge keeps stored sessions aligned with permission changes
// announced on the realtime channel. A permission event naming an
// identity rewrites every live session of that identity; an event
// deactivating it destroys those sessions instead.
type bridge struct {
	db  *gorm.DB
	hub *realtime.Hub
	now func() time.Time
}

func newBridge(db *gorm.DB, hub *realtime.Hub) *bridge {
	return &bridge{
		db:  db,
		hub: hub,
		now: time.Now,
	}
}

// Start attaches the bridge to the broadcast channel.
func (b *bridge) Start(ctx context.Context) error {
	conn, err := b.hub.Observe(ctx)
	if err != nil {
		return err
	}

	conn.Subscribe(realtime.EventPermissionsUpdated, b.apply)

	return nil
}

// apply rewrites or destroys the sessions of the identity the event
// names. Sessions of anyone else are left untouched. Destroys are
// idempotent, so a duplicate delivery acts at most once.
func (b *bridge) apply(ev realtime.Event) {
	p := ev.Permissions
	if p == nil {
		return
	}

	var records []models.Session

	if err := b.db.Where("expires_at > ?", b.now()).Find(&records).Error; err != nil {
		log.Error().Err(err).Msg("session scan failed, permission event skipped")

		return
	}

	for i := range records {
		rec := &records[i]

		data := new(session.Data)
		if err := json.Unmarshal(rec.Payload, data); err != nil {
			continue
		}

		if data.Identity.ID != p.EmployeeID {
			continue
		}

		if !p.Active {
			if session.Destroy(rec.ID) {
				log.Info().Str("employee_id", p.EmployeeID).Msg("session destroyed, identity deactivated")
			}

			continue
		}

		// replace the stored identity wholesale, never merge
		data.Identity.Role = identity.ParseRole(p.Role)
		data.Identity.Permissions = identity.ParsePermissions(p.Permissions)
		data.Identity.Active = p.Active

		remaining := rec.ExpiresAt.Sub(b.now())
		if remaining <= 0 {
			continue
		}

		if err := data.Write(rec.ID, remaining); err != nil {
			log.Error().Err(err).Str("employee_id", p.EmployeeID).Msg("session refresh write failed")

			continue
		}

		log.Info().
			Str("employee_id", p.EmployeeID).
			Str("role", p.Role).
			Strs("permissions", p.Permissions).
			Msg("session identity refreshed")
	}
}
