package store

import (
	"context"
	"fmt"
	"time"
)

type JobStore struct {
	db DB
}

type Job struct {
	ID              string    `db:"id"`
	ClientID        string    `db:"client_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	SkillsRequired  string    `db:"skills_required"`
	Budget          int64     `db:"budget"`
	Status          string    `db:"status"`
	CategoryID      *string   `db:"category_id"`
	Location        string    `db:"location"`
	ExperienceLevel string    `db:"experience_level"`
	JobType         string    `db:"job_type"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type JobInput struct {
	ID              string
	ClientID        string
	Title           string
	Description     string
	SkillsRequired  string
	Budget          int64
	Status          string
	CategoryID      *string
	Location        string
	ExperienceLevel string
	JobType         string
}

type JobFilter struct {
	Status    string
	MinBudget *int64
	MaxBudget *int64
}

func NewJobStore(db DB) *JobStore {
	return &JobStore{db: db}
}

func (s *JobStore) Create(ctx context.Context, tx Execer, input JobInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO jobs (id, client_id, title, description, skills_required, budget, status, category_id, location, experience_level, job_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, input.ID, input.ClientID, input.Title, input.Description, input.SkillsRequired,
		input.Budget, input.Status, input.CategoryID, input.Location, input.ExperienceLevel, input.JobType)
	return err
}

func (s *JobStore) GetByID(ctx context.Context, jobID string) (Job, error) {
	var row Job
	err := s.db.GetContext(ctx, &row, `
		SELECT id, client_id, title, description, skills_required, budget, status, category_id, location, experience_level, job_type, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`, jobID)
	if err != nil {
		return Job{}, err
	}
	return row, nil
}

func (s *JobStore) UpdateStatus(ctx context.Context, tx Execer, jobID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, jobID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CloseIfOpen flips a job to closed exactly once; zero rows affected means it
// was already closed.
func (s *JobStore) CloseIfOpen(ctx context.Context, tx Execer, jobID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'closed', updated_at = NOW()
		WHERE id = $1 AND status != 'closed'
	`, jobID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *JobStore) List(ctx context.Context, filter JobFilter) ([]Job, error) {
	query := `
		SELECT id, client_id, title, description, skills_required, budget, status, category_id, location, experience_level, job_type, created_at, updated_at
		FROM jobs
		WHERE 1=1
	`
	var args []any
	param := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", param)
		args = append(args, filter.Status)
		param++
	}
	if filter.MinBudget != nil {
		query += fmt.Sprintf(" AND budget >= $%d", param)
		args = append(args, *filter.MinBudget)
		param++
	}
	if filter.MaxBudget != nil {
		query += fmt.Sprintf(" AND budget <= $%d", param)
		args = append(args, *filter.MaxBudget)
		param++
	}
	query += " ORDER BY created_at DESC"
	var rows []Job
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
