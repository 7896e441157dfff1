package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"k12_reviser_v2/internal/common"
	"k12_reviser_v2/internal/domain/model"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	ListByClass(ctx context.Context, className string) ([]model.Subject, error)
}

type sqlSubjectRepository struct {
	db *sql.DB
}

func NewSQLSubjectRepository(db *sql.DB) SubjectRepository {
	return &sqlSubjectRepository{db: db}
}

func (r *sqlSubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	// No uniqueness on (name, class_name): duplicate subjects are allowed.
	query := `INSERT INTO subjects (id, name, class_name, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, subject.ID, subject.Name, subject.ClassName, subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlSubjectRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlSubjectRepository) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	query := `SELECT id, name, class_name, created_at FROM subjects WHERE id = $1`
	subject := &model.Subject{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&subject.ID, &subject.Name, &subject.ClassName, &subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlSubjectRepository.FindByID: %w", err)
	}
	return subject, nil
}

func (r *sqlSubjectRepository) ListByClass(ctx context.Context, className string) ([]model.Subject, error) {
	query := `SELECT id, name, class_name, created_at FROM subjects WHERE class_name = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, className)
	if err != nil {
		return nil, fmt.Errorf("sqlSubjectRepository.ListByClass query: %w", err)
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlSubjectRepository.ListByClass scan: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlSubjectRepository.ListByClass rows.Err: %w", err)
	}
	return subjects, nil
}
