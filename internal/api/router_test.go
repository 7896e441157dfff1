package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"k12_reviser_v2/internal/api"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common/security"
	"k12_reviser_v2/internal/domain/repository"
	"k12_reviser_v2/internal/platform/config"
	"k12_reviser_v2/internal/platform/database"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(context.Background(), "sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authService := service.NewAuthService(repository.NewSQLUserRepository(db))
	contentService := service.NewContentService(
		repository.NewSQLSubjectRepository(db),
		repository.NewSQLQuestionRepository(db),
	)
	performanceService := service.NewPerformanceService(
		repository.NewSQLPerformanceRepository(db),
		filepath.Join(t.TempDir(), "progress.txt"),
	)
	return api.NewRouter(authService, contentService, performanceService)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func signup(t *testing.T, router http.Handler, name, email, role, class string) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"name": name, "email": email, "password": "pw", "role": role, "student_class": class,
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, rr.Code, rr.Body.String())
	}
	var resp struct {
		UserID string `json:"user_id"`
	}
	decodeBody(t, rr, &resp)
	if resp.UserID == "" {
		t.Fatalf("signup %s: missing user_id", email)
	}
	return resp.UserID
}

func TestClassScopedSubjectAccess(t *testing.T) {
	router := newTestRouter(t)

	idA := signup(t, router, "A", "a@x.y", "student", "10")
	idB := signup(t, router, "B", "b@x.y", "student", "5")

	// Duplicate email conflicts regardless of other fields.
	rr := doJSON(t, router, http.MethodPost, "/signup", map[string]string{
		"name": "Other", "email": "a@x.y", "password": "zz", "role": "teacher",
	}, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rr.Code)
	}
	rr = doJSON(t, router, http.MethodPost, "/signup", map[string]string{"name": "NoEmail"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rr.Code)
	}

	for _, body := range []map[string]string{
		{"name": "Math", "class_name": "10"},
		{"name": "Science", "class_name": "5"},
	} {
		if rr := doJSON(t, router, http.MethodPost, "/subjects", body, nil); rr.Code != http.StatusCreated {
			t.Fatalf("add subject: expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
	}
	if rr := doJSON(t, router, http.MethodPost, "/subjects", map[string]string{"name": " "}, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank subject, got %d", rr.Code)
	}

	cases := []struct {
		caller   string
		class    string
		wantCode int
	}{
		{idA, "10", http.StatusOK},
		{idA, "5", http.StatusForbidden},
		{idB, "10", http.StatusForbidden},
		{idB, "5", http.StatusOK},
		{"", "10", http.StatusOK}, // anonymous is unconstrained
	}
	for _, tc := range cases {
		headers := map[string]string{}
		if tc.caller != "" {
			headers["X-User-ID"] = tc.caller
		}
		rr := doJSON(t, router, http.MethodGet, "/subjects/"+tc.class, nil, headers)
		if rr.Code != tc.wantCode {
			t.Fatalf("GET /subjects/%s as %q: expected %d, got %d: %s", tc.class, tc.caller, tc.wantCode, rr.Code, rr.Body.String())
		}
	}
}

func TestLoginAndBearerToken(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "B", "b@x.y", "student", "5")

	if rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{"email": "b@x.y"}, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{"email": "nobody@x.y", "password": "pw"}, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{"email": "b@x.y", "password": "bad"}, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rr.Code)
	}

	rr := doJSON(t, router, http.MethodPost, "/login", map[string]string{"email": "b@x.y", "password": "pw"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			StudentClass *string `json:"student_class"`
		} `json:"user"`
	}
	decodeBody(t, rr, &login)
	if login.AccessToken == "" || login.TokenType != "bearer" {
		t.Fatalf("unexpected login response: %s", rr.Body.String())
	}

	if rr := doJSON(t, router, http.MethodPost, "/subjects", map[string]string{"name": "Science", "class_name": "5"}, nil); rr.Code != http.StatusCreated {
		t.Fatalf("add subject failed: %d", rr.Code)
	}

	// The verified bearer token identifies the caller without X-User-ID.
	headers := map[string]string{"Authorization": "Bearer " + login.AccessToken}
	if rr := doJSON(t, router, http.MethodGet, "/subjects/5", nil, headers); rr.Code != http.StatusOK {
		t.Fatalf("bearer caller must reach own class, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(t, router, http.MethodGet, "/subjects/10", nil, headers); rr.Code != http.StatusForbidden {
		t.Fatalf("bearer caller must be denied another class, got %d", rr.Code)
	}
}

func TestQuestionUploadAndQuizListing(t *testing.T) {
	router := newTestRouter(t)
	idA := signup(t, router, "A", "a@x.y", "student", "10")

	rr := doJSON(t, router, http.MethodPost, "/api/questions/upload", map[string]interface{}{
		"className": "8", "subject": "Math", "topic": "Algebra", "type": "mcq",
		"question": "2+2?", "options": []string{"optA", "optB"}, "correctAnswer": "optA",
		"uploaded_by": "teacher-1",
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("structured upload: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, router, http.MethodPost, "/api/questions/upload", map[string]interface{}{
		"className": "8", "subject": "Math", "topic": "Algebra",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete upload, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPost, "/questions/upload", map[string]interface{}{
		"question": "capital of France?", "type": "short-answer",
		"correct_ans": "Paris", "topic_id": "3", "uploaded_by": "teacher-1",
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("flat upload: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if rr := doJSON(t, router, http.MethodGet, "/questions", nil, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without class, got %d", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodGet, "/questions?class=8", nil, map[string]string{"X-User-ID": idA}); rr.Code != http.StatusForbidden {
		t.Fatalf("student of class 10 must be denied class 8, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/questions?class=8&type=mcq", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("quiz listing: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var quiz struct {
		Questions []struct {
			ClassName     string `json:"class_name"`
			Subject       string `json:"subject"`
			Topic         string `json:"topic"`
			Type          string `json:"type"`
			Options       string `json:"options"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"questions"`
	}
	decodeBody(t, rr, &quiz)
	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 mcq question, got %d", len(quiz.Questions))
	}
	q := quiz.Questions[0]
	if q.ClassName != "8" || q.Subject != "Math" || q.Topic != "Algebra" || q.Options != "optA, optB" || q.CorrectAnswer != "optA" {
		t.Fatalf("unexpected question payload: %+v", q)
	}

	rr = doJSON(t, router, http.MethodGet, "/questions/all", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list all: expected 200, got %d", rr.Code)
	}
	var all []map[string]interface{}
	decodeBody(t, rr, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 questions in admin view, got %d", len(all))
	}

	rr = doJSON(t, router, http.MethodGet, "/questions/uploaded-by/teacher-1", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("uploaded-by: expected 200, got %d", rr.Code)
	}
	var uploaded []map[string]interface{}
	decodeBody(t, rr, &uploaded)
	if len(uploaded) != 2 {
		t.Fatalf("expected 2 uploaded questions, got %d", len(uploaded))
	}
}

func TestTopicsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	if rr := doJSON(t, router, http.MethodPost, "/subjects", map[string]string{"name": "Math", "class_name": "8"}, nil); rr.Code != http.StatusCreated {
		t.Fatalf("add subject failed: %d", rr.Code)
	}
	rr := doJSON(t, router, http.MethodGet, "/subjects/8", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list subjects failed: %d", rr.Code)
	}
	var subjects []struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &subjects)
	if len(subjects) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(subjects))
	}
	subjectID := subjects[0].ID

	for _, topic := range []string{"Geometry", "Algebra", "Algebra"} {
		rr := doJSON(t, router, http.MethodPost, "/api/questions/upload", map[string]interface{}{
			"className": "8", "subject": "Math", "topic": topic, "type": "mcq",
			"question": "q", "options": []string{"a", "b"}, "correctAnswer": "a",
		}, nil)
		if rr.Code != http.StatusCreated {
			t.Fatalf("upload failed: %d", rr.Code)
		}
	}

	if rr := doJSON(t, router, http.MethodGet, "/topics/no-such-subject", nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown subject, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/topics/"+subjectID, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("topics: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var topics []struct {
		ID            int    `json:"id"`
		Name          string `json:"name"`
		SubjectID     string `json:"subject_id"`
		QuestionCount int    `json:"question_count"`
	}
	decodeBody(t, rr, &topics)
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %+v", topics)
	}
	if topics[0].ID != 1 || topics[0].Name != "Algebra" || topics[0].QuestionCount != 2 {
		t.Fatalf("unexpected first topic: %+v", topics[0])
	}
	if topics[1].ID != 2 || topics[1].Name != "Geometry" || topics[1].QuestionCount != 1 {
		t.Fatalf("unexpected second topic: %+v", topics[1])
	}
}

func TestPerformanceEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// No records and no snapshot file: both endpoints return empty lists.
	rr := doJSON(t, router, http.MethodGet, "/performance/summary", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rr.Code)
	}
	var records []interface{}
	decodeBody(t, rr, &records)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", records)
	}

	rr = doJSON(t, router, http.MethodGet, "/performance/all-progress", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("all-progress: expected 200, got %d", rr.Code)
	}
	var progress []interface{}
	decodeBody(t, rr, &progress)
	if len(progress) != 0 {
		t.Fatalf("expected empty progress, got %v", progress)
	}
}
