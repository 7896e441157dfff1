package model

// PerformanceRecord is a row of the externally aggregated summary table.
// This service only reads it; accuracy is a fraction, time_spent is passed
// through in whatever unit the aggregator stored.
type PerformanceRecord struct {
	StudentID   string  `json:"student_id"`
	SubjectName string  `json:"subject_name"`
	TopicName   string  `json:"topic_name"`
	Accuracy    float64 `json:"accuracy"`
	TimeSpent   int64   `json:"time_spent"`
}
