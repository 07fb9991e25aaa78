package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// AuditLog is one audit_logs row. ActorID zero means the change was not
// attributed to a signed-in user, which is the case for sales today.
type AuditLog struct {
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Execer is the subset of pgxpool.Pool the audit logger needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertAuditLog = `INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at)
VALUES (NULLIF($1::bigint, 0), $2, $3, $4, $5, $6)`

// AuditLogger appends sale and catalogue changes to audit_logs.
type AuditLogger struct {
	db  Execer
	now func() time.Time
}

// NewAuditLogger returns a logger writing through db.
func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db, now: time.Now}
}

// Record persists entry. A zero At is stamped with the current UTC time and a
// nil Meta is stored as an empty object.
func (l *AuditLogger) Record(ctx context.Context, entry AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("shared/audit: logger not initialised")
	}
	if missing := entry.missingFields(); len(missing) > 0 {
		return fmt.Errorf("shared/audit: missing %s", strings.Join(missing, ", "))
	}
	meta := entry.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("shared/audit: encode meta for %s %s: %w", entry.Entity, entry.EntityID, err)
	}
	at := entry.At
	if at.IsZero() {
		at = l.now()
	}
	if _, err := l.db.Exec(ctx, insertAuditLog, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metaJSON, at.UTC()); err != nil {
		return fmt.Errorf("shared/audit: insert %s: %w", entry.Action, err)
	}
	return nil
}

func (e AuditLog) missingFields() []string {
	var missing []string
	if e.Action == "" {
		missing = append(missing, "action")
	}
	if e.Entity == "" {
		missing = append(missing, "entity")
	}
	if e.EntityID == "" {
		missing = append(missing, "entity_id")
	}
	return missing
}
