package repository

import (
	"context"
	"database/sql"
	"fmt"
	"k12_reviser_v2/internal/domain/model"
	"strings"
)

// QuestionFilter narrows the student quiz listing. ClassName is always set;
// the rest are applied only when non-empty.
type QuestionFilter struct {
	ClassName string
	Subject   string
	TopicID   string
	Type      string
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	ListRandom(ctx context.Context, filter QuestionFilter, limit int) ([]model.Question, error)
	ListAll(ctx context.Context) ([]model.Question, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]model.Question, error)
	ListTopicSummaries(ctx context.Context, subjectName, className string) ([]model.TopicSummary, error)
}

type sqlQuestionRepository struct {
	db *sql.DB
}

func NewSQLQuestionRepository(db *sql.DB) QuestionRepository {
	return &sqlQuestionRepository{db: db}
}

const questionColumns = `id, class_name, subject, topic, topic_id, type, question,
	option1, option2, option3, option4, options_raw, correct_answer, uploaded_by, created_at`

func (r *sqlQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID, q.ClassName, q.Subject, q.Topic, q.TopicID, q.Type, q.Question,
		q.Option1, q.Option2, q.Option3, q.Option4, q.OptionsRaw, q.CorrectAnswer, q.UploadedBy, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlQuestionRepository.Create: %w", err)
	}
	return nil
}

// ListRandom returns up to limit questions matching the filter, sampled
// uniformly at random from the full matching set. The randomized pick is a
// quiz-variety feature, not an arbitrary cut of the first rows.
func (r *sqlQuestionRepository) ListRandom(ctx context.Context, filter QuestionFilter, limit int) ([]model.Question, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + questionColumns + ` FROM questions WHERE class_name = $1`)
	args := []interface{}{filter.ClassName}
	argID := 2

	if filter.Subject != "" {
		query.WriteString(fmt.Sprintf(" AND subject = $%d", argID))
		args = append(args, filter.Subject)
		argID++
	}
	if filter.TopicID != "" {
		query.WriteString(fmt.Sprintf(" AND topic_id = $%d", argID))
		args = append(args, filter.TopicID)
		argID++
	}
	if filter.Type != "" {
		query.WriteString(fmt.Sprintf(" AND type = $%d", argID))
		args = append(args, filter.Type)
		argID++
	}

	// random() works on both postgres and sqlite.
	query.WriteString(fmt.Sprintf(" ORDER BY random() LIMIT $%d", argID))
	args = append(args, limit)

	return r.queryQuestions(ctx, query.String(), args...)
}

func (r *sqlQuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at DESC`
	return r.queryQuestions(ctx, query)
}

func (r *sqlQuestionRepository) ListByUploader(ctx context.Context, uploaderID string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE uploaded_by = $1`
	return r.queryQuestions(ctx, query, uploaderID)
}

func (r *sqlQuestionRepository) queryQuestions(ctx context.Context, query string, args ...interface{}) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository query: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(
			&q.ID, &q.ClassName, &q.Subject, &q.Topic, &q.TopicID, &q.Type, &q.Question,
			&q.Option1, &q.Option2, &q.Option3, &q.Option4, &q.OptionsRaw, &q.CorrectAnswer, &q.UploadedBy, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlQuestionRepository scan: %w", err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository rows.Err: %w", err)
	}
	return questions, nil
}

// ListTopicSummaries groups questions of one subject+class by their topic
// label. Ids are assigned by the service from sort position, so only name and
// count are filled here.
func (r *sqlQuestionRepository) ListTopicSummaries(ctx context.Context, subjectName, className string) ([]model.TopicSummary, error) {
	query := `SELECT topic, COUNT(*) AS question_count
	          FROM questions
	          WHERE subject = $1 AND class_name = $2 AND topic IS NOT NULL
	          GROUP BY topic
	          ORDER BY topic`
	rows, err := r.db.QueryContext(ctx, query, subjectName, className)
	if err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListTopicSummaries query: %w", err)
	}
	defer rows.Close()

	summaries := []model.TopicSummary{}
	for rows.Next() {
		var s model.TopicSummary
		if err := rows.Scan(&s.Name, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("sqlQuestionRepository.ListTopicSummaries scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListTopicSummaries rows.Err: %w", err)
	}
	return summaries, nil
}
