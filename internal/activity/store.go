package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/socialite/internal/db"
)

// ErrNotFound is returned when a render does not exist.
var ErrNotFound = errors.New("render not found")

// Store persists renders and their activity events.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a render and its events in one transaction. Empty
// ids are generated and written back into r.
func (s *Store) Record(ctx context.Context, r *Render) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Mode == "" {
		r.Mode = ModeLoad
	}
	if r.RenderedAt.IsZero() {
		r.RenderedAt = time.Now().UTC().Truncate(time.Second)
	}
	if r.Networks == nil {
		r.Networks = []string{}
	}

	networks, err := json.Marshal(r.Networks)
	if err != nil {
		return fmt.Errorf("marshalling networks: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO renders (id, page, mode, instances, networks, rendered_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Page, string(r.Mode), r.Instances, string(networks),
		r.RenderedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting render: %w", err)
	}

	for i := range r.Events {
		e := &r.Events[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.RenderID = r.ID
		if e.Seq == 0 {
			e.Seq = i + 1
		}

		var uid sql.NullInt64
		if e.InstanceUID != nil {
			uid = sql.NullInt64{Int64: int64(*e.InstanceUID), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO activity_events (id, render_id, seq, kind, network, widget, instance_uid)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.RenderID, e.Seq, string(e.Kind), e.Network, e.Widget, uid,
		)
		if err != nil {
			return fmt.Errorf("inserting event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing render: %w", err)
	}
	return nil
}

// GetByID retrieves a render together with its events.
func (s *Store) GetByID(ctx context.Context, id string) (*Render, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, page, mode, instances, networks, rendered_at
		FROM renders WHERE id = ?`, id)

	r, err := scanRender(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading render %s: %w", id, err)
	}

	r.Events, err = s.Query(ctx, QueryFilter{RenderID: id})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RenderFilter controls which renders List returns.
type RenderFilter struct {
	Page   string
	Mode   Mode
	Since  *time.Time
	Limit  int
	Offset int
}

// List returns renders matching the filter, newest first. Events are
// not loaded.
func (s *Store) List(ctx context.Context, filter RenderFilter) ([]Render, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Page != "" {
		clauses = append(clauses, "page = ?")
		args = append(args, filter.Page)
	}
	if filter.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(filter.Mode))
	}
	if filter.Since != nil {
		clauses = append(clauses, "rendered_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, page, mode, instances, networks, rendered_at FROM renders"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY rendered_at DESC, rowid DESC"
	query += limitClause(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying renders: %w", err)
	}
	defer rows.Close()

	var renders []Render
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, *r)
	}
	return renders, rows.Err()
}

// QueryFilter controls which events Query returns.
type QueryFilter struct {
	RenderID string
	Kind     Kind
	Network  string
	Widget   string
	Limit    int
	Offset   int
}

// Query returns events matching the filter, ordered by render and
// sequence number.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.RenderID != "" {
		clauses = append(clauses, "e.render_id = ?")
		args = append(args, filter.RenderID)
	}
	if filter.Kind != "" {
		clauses = append(clauses, "e.kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Network != "" {
		clauses = append(clauses, "e.network = ?")
		args = append(args, filter.Network)
	}
	if filter.Widget != "" {
		clauses = append(clauses, "e.widget = ?")
		args = append(args, filter.Widget)
	}

	query := `SELECT e.id, e.render_id, e.seq, e.kind, e.network, e.widget, e.instance_uid
		FROM activity_events e JOIN renders r ON r.id = e.render_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY r.rendered_at, r.rowid, e.seq"
	query += limitClause(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e    Event
			kind string
			uid  sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.RenderID, &e.Seq, &kind, &e.Network, &e.Widget, &uid); err != nil {
			return nil, fmt.Errorf("scanning activity event: %w", err)
		}
		e.Kind = Kind(kind)
		if uid.Valid {
			n := int(uid.Int64)
			e.InstanceUID = &n
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteBefore removes renders older than the given time along with
// their events. Returns the number of deleted renders.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM renders WHERE rendered_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old renders: %w", err)
	}
	return res.RowsAffected()
}

func limitClause(limit, offset int) string {
	var q string
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	} else if offset > 0 {
		q += " LIMIT -1"
	}
	if offset > 0 {
		q += fmt.Sprintf(" OFFSET %d", offset)
	}
	return q
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRender(sc scanner) (*Render, error) {
	var (
		r            Render
		mode, ts     string
		networksJSON string
	)
	if err := sc.Scan(&r.ID, &r.Page, &mode, &r.Instances, &networksJSON, &ts); err != nil {
		return nil, err
	}
	r.Mode = Mode(mode)

	if t, err := time.Parse(time.DateTime, ts); err == nil {
		r.RenderedAt = t
	} else if t, err := time.Parse(time.RFC3339, ts); err == nil {
		r.RenderedAt = t
	}

	if err := json.Unmarshal([]byte(networksJSON), &r.Networks); err != nil {
		r.Networks = nil
	}
	return &r, nil
}
