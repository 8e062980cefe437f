package brief

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"solid-waffle/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

// The whole artifact list is persisted as one JSON array document,
// newest-first. There is no version column: schema evolution is additive only.
const createBriefTable = `
CREATE TABLE IF NOT EXISTS brief_artifacts (
    id          INT         PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    doc         JSONB       NOT NULL DEFAULT '[]'::jsonb,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores the artifact list in Postgres. Append is
// load-modify-store without locking; concurrent writers are last-write-wins,
// which only costs cosmetic freshness, never computed correctness.
type Repository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRepository(pool PgxPool, tracer trace.Tracer) *Repository {
	return &Repository{pool: pool, tracer: tracer}
}

func (r *Repository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "brief-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createBriefTable)
	return err
}

func (r *Repository) List(ctx context.Context) ([]domain.BriefArtifact, error) {
	_, span := r.tracer.Start(ctx, "brief-repo.list")
	defer span.End()

	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM brief_artifacts WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load briefing document: %w", err)
	}

	var list []domain.BriefArtifact
	if err := json.Unmarshal(doc, &list); err != nil {
		return nil, fmt.Errorf("decode briefing document: %w", err)
	}
	return list, nil
}

func (r *Repository) Append(ctx context.Context, artifact domain.BriefArtifact) error {
	ctx, span := r.tracer.Start(ctx, "brief-repo.append")
	defer span.End()

	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(prepend(list, artifact))
	if err != nil {
		return fmt.Errorf("encode briefing document: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO brief_artifacts (id, doc, updated_at) VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		doc,
	)
	if err != nil {
		return fmt.Errorf("store briefing document: %w", err)
	}
	return nil
}
