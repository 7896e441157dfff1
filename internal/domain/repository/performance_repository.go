package repository

import (
	"context"
	"database/sql"
	"fmt"
	"k12_reviser_v2/internal/domain/model"
)

// PerformanceRepository reads the externally maintained summary table.
// There is no write path from this service.
type PerformanceRepository interface {
	ListAll(ctx context.Context) ([]model.PerformanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.PerformanceRecord, error)
}

type sqlPerformanceRepository struct {
	db *sql.DB
}

func NewSQLPerformanceRepository(db *sql.DB) PerformanceRepository {
	return &sqlPerformanceRepository{db: db}
}

func (r *sqlPerformanceRepository) ListAll(ctx context.Context) ([]model.PerformanceRecord, error) {
	query := `SELECT student_id, subject_name, topic_name, accuracy, time_spent FROM performance_summary`
	return r.queryRecords(ctx, query)
}

func (r *sqlPerformanceRepository) ListByStudent(ctx context.Context, studentID string) ([]model.PerformanceRecord, error) {
	query := `SELECT student_id, subject_name, topic_name, accuracy, time_spent
	          FROM performance_summary WHERE student_id = $1`
	return r.queryRecords(ctx, query, studentID)
}

func (r *sqlPerformanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]model.PerformanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlPerformanceRepository query: %w", err)
	}
	defer rows.Close()

	records := []model.PerformanceRecord{}
	for rows.Next() {
		var rec model.PerformanceRecord
		if err := rows.Scan(&rec.StudentID, &rec.SubjectName, &rec.TopicName, &rec.Accuracy, &rec.TimeSpent); err != nil {
			return nil, fmt.Errorf("sqlPerformanceRepository scan: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlPerformanceRepository rows.Err: %w", err)
	}
	return records, nil
}
