package service

import (
	"context"
	"encoding/json"
	"fmt"
	"k12_reviser_v2/internal/domain/model"
	"k12_reviser_v2/internal/domain/repository"
	"os"
)

type PerformanceService struct {
	performanceRepo  repository.PerformanceRepository
	progressFilePath string
}

func NewPerformanceService(performanceRepo repository.PerformanceRepository, progressFilePath string) *PerformanceService {
	return &PerformanceService{performanceRepo: performanceRepo, progressFilePath: progressFilePath}
}

// Summary returns the aggregated records, scoped to the caller's own rows
// when the caller is a student. Everyone else sees the unfiltered set.
func (s *PerformanceService) Summary(ctx context.Context, caller *model.User) ([]model.PerformanceRecord, error) {
	if caller.IsStudent() {
		records, err := s.performanceRepo.ListByStudent(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list student performance: %w", err)
		}
		return records, nil
	}
	records, err := s.performanceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance: %w", err)
	}
	return records, nil
}

// AllProgress returns the contents of the externally written progress
// snapshot file. A missing file reads as an empty list.
func (s *PerformanceService) AllProgress() (interface{}, error) {
	data, err := os.ReadFile(s.progressFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []interface{}{}, nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	var progress interface{}
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	return progress, nil
}
