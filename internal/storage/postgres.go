package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tjelz/sitecontext/scrape"
)

// ErrNotFound is returned when no snapshot exists for an origin.
var ErrNotFound = errors.New("storage: snapshot not found")

// Snapshot is one persisted context build for a site.
type Snapshot struct {
	Origin     string                        `json:"origin"`
	Markdown   string                        `json:"markdown"`
	Structured *scrape.StructuredWebsiteData `json:"structured"`
	BuiltAt    time.Time                     `json:"built_at"`
}

// PostgresStore persists built context snapshots.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveSnapshot upserts the latest build for an origin and replaces its
// offerings rows within a single transaction.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	structured, err := json.Marshal(snap.Structured)
	if err != nil {
		return fmt.Errorf("encoding structured data: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var snapshotID int
	err = tx.QueryRow(ctx,
		`INSERT INTO context_snapshots (origin, markdown, structured, built_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (origin) DO UPDATE SET
		   markdown = EXCLUDED.markdown, structured = EXCLUDED.structured, built_at = EXCLUDED.built_at
		 RETURNING id`,
		snap.Origin, snap.Markdown, structured, snap.BuiltAt,
	).Scan(&snapshotID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM snapshot_offerings WHERE snapshot_id = $1`, snapshotID); err != nil {
		return err
	}

	if snap.Structured != nil && len(snap.Structured.Offerings) > 0 {
		batch := &pgx.Batch{}
		for pos, offering := range snap.Structured.Offerings {
			batch.Queue(
				`INSERT INTO snapshot_offerings (snapshot_id, position, offering) VALUES ($1, $2, $3)`,
				snapshotID, pos, offering)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetLatestSnapshot retrieves the most recent build for an origin.
func (s *PostgresStore) GetLatestSnapshot(ctx context.Context, origin string) (*Snapshot, error) {
	var snap Snapshot
	var structured []byte
	err := s.db.QueryRow(ctx,
		`SELECT origin, markdown, structured, built_at FROM context_snapshots WHERE origin = $1`,
		origin,
	).Scan(&snap.Origin, &snap.Markdown, &structured, &snap.BuiltAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &snap.Structured); err != nil {
			return nil, fmt.Errorf("decoding structured data: %w", err)
		}
	}
	return &snap, nil
}
