package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadichii/kadichii/internal/domain"
)

type StrokeRepo struct {
	pool *pgxpool.Pool
}

func NewStrokeRepo(pool *pgxpool.Pool) *StrokeRepo {
	return &StrokeRepo{pool: pool}
}

func (r *StrokeRepo) Append(ctx context.Context, s *domain.Stroke) error {
	points, err := json.Marshal(s.Points)
	if err != nil {
		return fmt.Errorf("strokeRepo.Append: marshal points: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO strokes (id, project_id, points, color, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.ProjectID, points, s.Color, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("strokeRepo.Append: %w", err)
	}

	return nil
}

func (r *StrokeRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Stroke, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, points, color, created_at
		 FROM strokes WHERE project_id = $1 ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("strokeRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	var strokes []*domain.Stroke
	for rows.Next() {
		var s domain.Stroke
		var points []byte

		err = rows.Scan(&s.ID, &s.ProjectID, &points, &s.Color, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("strokeRepo.ListByProject: scan: %w", err)
		}
		err = json.Unmarshal(points, &s.Points)
		if err != nil {
			return nil, fmt.Errorf("strokeRepo.ListByProject: unmarshal points: %w", err)
		}
		strokes = append(strokes, &s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("strokeRepo.ListByProject: rows: %w", err)
	}

	return strokes, nil
}

func (r *StrokeRepo) ClearProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM strokes WHERE project_id = $1`,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("strokeRepo.ClearProject: %w", err)
	}

	return nil
}
