// Package postgres holds the canonical job-posting repository.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gigboard/internal/models"
	"gigboard/internal/store"
)

var _ store.JobStore = (*JobStore)(nil)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open dials postgres via the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

func (r *JobStore) Create(ctx context.Context, p *models.JobPosting) (*models.JobPosting, error) {
	created := *p
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_postings (id, employer_id, title, description, salary_amount, salary_unit, duration_amount, duration_unit, state, district, latitude, longitude, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		created.ID, created.EmployerID, created.Title, created.Description,
		created.SalaryAmount, created.SalaryUnit, created.DurationAmount, created.DurationUnit,
		created.Location.State, created.Location.District,
		nullable(created.Location.Latitude), nullable(created.Location.Longitude),
		created.Status, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert job posting: %w", err)
	}
	return &created, nil
}

func (r *JobStore) Update(ctx context.Context, id string, p *models.JobPosting) (*models.JobPosting, error) {
	updated := *p
	updated.ID = id
	// created_at is never touched by an update; the stored value is read
	// back so the returned posting reflects the row.
	row := r.db.QueryRowContext(ctx, `UPDATE job_postings SET title = $1, description = $2, salary_amount = $3, salary_unit = $4, duration_amount = $5, duration_unit = $6, state = $7, district = $8, latitude = $9, longitude = $10, status = $11, updated_at = $12
		WHERE id = $13 RETURNING created_at`,
		updated.Title, updated.Description, updated.SalaryAmount, updated.SalaryUnit,
		updated.DurationAmount, updated.DurationUnit,
		updated.Location.State, updated.Location.District,
		nullable(updated.Location.Latitude), nullable(updated.Location.Longitude),
		updated.Status, updated.UpdatedAt, id)
	if err := row.Scan(&updated.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("update job posting: %w", err)
	}
	return &updated, nil
}

func (r *JobStore) GetByID(ctx context.Context, id string) (*models.JobPosting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, employer_id, title, description, salary_amount, salary_unit, duration_amount, duration_unit, state, district, latitude, longitude, status, created_at, updated_at
		FROM job_postings WHERE id = $1`, id)

	var p models.JobPosting
	var lat, lng sql.NullFloat64
	if err := row.Scan(&p.ID, &p.EmployerID, &p.Title, &p.Description,
		&p.SalaryAmount, &p.SalaryUnit, &p.DurationAmount, &p.DurationUnit,
		&p.Location.State, &p.Location.District, &lat, &lng,
		&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("load job posting: %w", err)
	}

	if lat.Valid {
		p.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		p.Location.Longitude = &lng.Float64
	}
	return &p, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
