package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"k12_reviser_v2/internal/common"
	"k12_reviser_v2/internal/domain/model"
	"k12_reviser_v2/internal/domain/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxQuizQuestions caps a single quiz delivery.
const MaxQuizQuestions = 20

type ContentService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
}

func NewContentService(subjectRepo repository.SubjectRepository, questionRepo repository.QuestionRepository) *ContentService {
	return &ContentService{subjectRepo: subjectRepo, questionRepo: questionRepo}
}

type AddSubjectRequest struct {
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
}

func (s *ContentService) AddSubject(ctx context.Context, req AddSubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	className := strings.TrimSpace(req.ClassName)
	if name == "" || className == "" {
		return nil, fmt.Errorf("missing subject name or class name: %w", common.ErrValidation)
	}

	subject := &model.Subject{
		ID:        uuid.NewString(),
		Name:      name,
		ClassName: className,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

func (s *ContentService) ListSubjects(ctx context.Context, className string, caller *model.User) ([]model.Subject, error) {
	if err := CheckClassAccess(caller, className); err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.ListByClass(ctx, className)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// ListTopics derives topic summaries for a subject. Ids are the 1-based
// positions in the lexicographic ordering and are recomputed per call; they
// are documented as non-durable.
func (s *ContentService) ListTopics(ctx context.Context, subjectID string, caller *model.User) ([]model.TopicSummary, error) {
	subject, err := s.subjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("subject not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}

	if err := CheckClassAccess(caller, subject.ClassName); err != nil {
		return nil, err
	}

	summaries, err := s.questionRepo.ListTopicSummaries(ctx, subject.Name, subject.ClassName)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	for i := range summaries {
		summaries[i].ID = i + 1
		summaries[i].SubjectID = subject.ID
	}
	return summaries, nil
}

// FlatQuestionUpload is the legacy upload shape: options arrive as one
// encoded text value and the topic is referenced by id.
type FlatQuestionUpload struct {
	Question   string `json:"question"`
	Type       string `json:"type"`
	Options    string `json:"options"`
	CorrectAns string `json:"correct_ans"`
	TopicID    string `json:"topic_id"`
	UploadedBy string `json:"uploaded_by"`
}

// StructuredQuestionUpload is the current upload shape with class/subject/
// topic labels and up to four option slots.
type StructuredQuestionUpload struct {
	ClassName     string   `json:"className"`
	Subject       string   `json:"subject"`
	Topic         string   `json:"topic"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	UploadedBy    string   `json:"uploaded_by"`
}

// createQuestionCommand is the canonical creation command both upload shapes
// normalize into before anything is persisted.
type createQuestionCommand struct {
	ClassName     string
	Subject       string
	Topic         *string
	TopicID       *string
	Type          string
	Question      string
	Options       []string
	OptionsRaw    *string
	CorrectAnswer string
	UploadedBy    *string
}

func (s *ContentService) UploadFlatQuestion(ctx context.Context, req FlatQuestionUpload) (string, error) {
	if req.Question == "" || req.Type == "" || req.CorrectAns == "" || req.TopicID == "" || req.UploadedBy == "" {
		return "", fmt.Errorf("missing required fields: %w", common.ErrValidation)
	}
	optionsRaw := req.Options
	return s.createQuestion(ctx, createQuestionCommand{
		TopicID:       &req.TopicID,
		Type:          req.Type,
		Question:      req.Question,
		OptionsRaw:    &optionsRaw,
		CorrectAnswer: req.CorrectAns,
		UploadedBy:    &req.UploadedBy,
	})
}

func (s *ContentService) UploadStructuredQuestion(ctx context.Context, req StructuredQuestionUpload) (string, error) {
	if req.ClassName == "" || req.Subject == "" || req.Topic == "" || req.Type == "" || req.Question == "" || req.CorrectAnswer == "" {
		return "", fmt.Errorf("missing required fields: %w", common.ErrValidation)
	}

	// Anything beyond the fourth option is silently dropped.
	options := req.Options
	if len(options) > 4 {
		options = options[:4]
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to encode options: %w", err)
	}
	optionsRaw := string(encoded)

	cmd := createQuestionCommand{
		ClassName:     req.ClassName,
		Subject:       req.Subject,
		Topic:         &req.Topic,
		Type:          req.Type,
		Question:      req.Question,
		Options:       options,
		OptionsRaw:    &optionsRaw,
		CorrectAnswer: req.CorrectAnswer,
	}
	if req.UploadedBy != "" {
		cmd.UploadedBy = &req.UploadedBy
	}
	return s.createQuestion(ctx, cmd)
}

func (s *ContentService) createQuestion(ctx context.Context, cmd createQuestionCommand) (string, error) {
	question := &model.Question{
		ID:            uuid.NewString(),
		ClassName:     cmd.ClassName,
		Subject:       cmd.Subject,
		Topic:         cmd.Topic,
		TopicID:       cmd.TopicID,
		Type:          cmd.Type,
		Question:      cmd.Question,
		OptionsRaw:    cmd.OptionsRaw,
		CorrectAnswer: cmd.CorrectAnswer,
		UploadedBy:    cmd.UploadedBy,
		CreatedAt:     time.Now().UTC(),
	}
	slots := []**string{&question.Option1, &question.Option2, &question.Option3, &question.Option4}
	for i, opt := range cmd.Options {
		value := opt
		*slots[i] = &value
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return "", fmt.Errorf("failed to create question: %w", err)
	}
	return question.ID, nil
}

type ListQuestionsRequest struct {
	ClassName string
	SubjectID string
	TopicID   string
	Type      string
}

// StudentQuestionView is the quiz-delivery shape. Options is a single display
// string and is present only for mcq and true-false questions.
type StudentQuestionView struct {
	ID            string  `json:"id"`
	ClassName     string  `json:"class_name"`
	Subject       string  `json:"subject"`
	Topic         *string `json:"topic"`
	Type          string  `json:"type"`
	Question      string  `json:"question"`
	CorrectAnswer string  `json:"correct_answer"`
	Options       string  `json:"options,omitempty"`
}

func (s *ContentService) ListQuestionsForStudent(ctx context.Context, req ListQuestionsRequest, caller *model.User) ([]StudentQuestionView, error) {
	if req.ClassName == "" {
		return nil, fmt.Errorf("class is required: %w", common.ErrValidation)
	}
	// Gate before any query executes.
	if err := CheckClassAccess(caller, req.ClassName); err != nil {
		return nil, err
	}

	filter := repository.QuestionFilter{
		ClassName: req.ClassName,
		TopicID:   req.TopicID,
		Type:      req.Type,
	}
	if req.SubjectID != "" {
		subject, err := s.subjectRepo.FindByID(ctx, req.SubjectID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve subject filter: %w", err)
		}
		// An unknown subject id drops the filter rather than failing.
		if err == nil {
			filter.Subject = subject.Name
		}
	}

	questions, err := s.questionRepo.ListRandom(ctx, filter, MaxQuizQuestions)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	views := []StudentQuestionView{}
	for i := range questions {
		q := &questions[i]
		view := StudentQuestionView{
			ID:            q.ID,
			ClassName:     q.ClassName,
			Subject:       q.Subject,
			Topic:         q.Topic,
			Type:          q.Type,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
		}
		switch q.Type {
		case model.QuestionTypeMCQ:
			if options := q.PresentOptions(); len(options) > 0 {
				view.Options = strings.Join(options, ", ")
			}
		case model.QuestionTypeTrueFalse:
			view.Options = "True, False"
		}
		views = append(views, view)
	}
	return views, nil
}

// AdminQuestionView is the unfiltered administrative shape with the full
// option list.
type AdminQuestionView struct {
	ID            string    `json:"id"`
	ClassName     string    `json:"class_name"`
	Subject       string    `json:"subject"`
	Topic         *string   `json:"topic"`
	Type          string    `json:"type"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	UploadedBy    *string   `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *ContentService) ListAllQuestions(ctx context.Context) ([]AdminQuestionView, error) {
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	views := []AdminQuestionView{}
	for i := range questions {
		q := &questions[i]
		views = append(views, AdminQuestionView{
			ID:            q.ID,
			ClassName:     q.ClassName,
			Subject:       q.Subject,
			Topic:         q.Topic,
			Type:          q.Type,
			Question:      q.Question,
			Options:       q.PresentOptions(),
			CorrectAnswer: q.CorrectAnswer,
			UploadedBy:    q.UploadedBy,
			CreatedAt:     q.CreatedAt,
		})
	}
	return views, nil
}

// UploaderQuestionView is the teacher's own-uploads shape. Options come from
// the encoded column; a value that does not decode reads as an empty list.
type UploaderQuestionView struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Topic         *string  `json:"topic"`
}

func (s *ContentService) ListQuestionsByUploader(ctx context.Context, uploaderID string) ([]UploaderQuestionView, error) {
	questions, err := s.questionRepo.ListByUploader(ctx, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploaded questions: %w", err)
	}

	views := []UploaderQuestionView{}
	for i := range questions {
		q := &questions[i]
		options := []string{}
		if q.OptionsRaw != nil {
			if err := json.Unmarshal([]byte(*q.OptionsRaw), &options); err != nil {
				options = []string{} // fault-tolerant read
			}
		}
		views = append(views, UploaderQuestionView{
			ID:            q.ID,
			Question:      q.Question,
			Type:          q.Type,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Topic:         q.Topic,
		})
	}
	return views, nil
}
