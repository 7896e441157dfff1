package model

import "time"

const (
	QuestionTypeMCQ         = "mcq"
	QuestionTypeTrueFalse   = "true-false"
	QuestionTypeShortAnswer = "short-answer"
)

// Question is the canonical record both upload shapes normalize into. The
// structured shape fills class/subject/topic and the four option slots; the
// legacy flat shape fills topic_id and keeps its encoded options text in
// OptionsRaw. Option and answer fields are opaque payload and are never
// validated against the type.
type Question struct {
	ID            string    `json:"id"`
	ClassName     string    `json:"class_name"`
	Subject       string    `json:"subject"`
	Topic         *string   `json:"topic"`
	TopicID       *string   `json:"topic_id,omitempty"`
	Type          string    `json:"type"`
	Question      string    `json:"question"`
	Option1       *string   `json:"-"`
	Option2       *string   `json:"-"`
	Option3       *string   `json:"-"`
	Option4       *string   `json:"-"`
	OptionsRaw    *string   `json:"-"`
	CorrectAnswer string    `json:"correct_answer"`
	UploadedBy    *string   `json:"uploaded_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PresentOptions returns the option slots that are set, in slot order.
// Absent slots are omitted entirely, not padded.
func (q *Question) PresentOptions() []string {
	options := []string{}
	for _, opt := range []*string{q.Option1, q.Option2, q.Option3, q.Option4} {
		if opt != nil && *opt != "" {
			options = append(options, *opt)
		}
	}
	return options
}
