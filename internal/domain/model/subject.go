package model

import "time"

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassName string    `json:"class_name"`
	CreatedAt time.Time `json:"-"`
}

// TopicSummary is a derived view: topics are distinct string labels on
// questions, not stored entities. The id is the topic's 1-based position in
// the lexicographically sorted listing and is recomputed on every call, so it
// is not stable as questions are added or removed.
type TopicSummary struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SubjectID     string `json:"subject_id"`
	QuestionCount int    `json:"question_count"`
}
