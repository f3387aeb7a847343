package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hirevox/hirevox/api"
	dbfiles "github.com/hirevox/hirevox/db"
	"github.com/hirevox/hirevox/internal/config"
	dbpkg "github.com/hirevox/hirevox/internal/db"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbpkg.Migrate(ctx, d, dbfiles.Migrations); err != nil {
		d.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     "testsecret",
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
		Session: config.SessionConfig{
			MaxRecording:       180 * time.Second,
			LegacyMaxRecording: 120 * time.Second,
			SpeakDelay:         time.Second,
		},
	}

	router, cleanup := api.SetupRoutes(cfg, "test", "now", d, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cleanup()
		d.Close()
	})
	return srv
}

type testClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *testClient) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)
	return res.StatusCode, data
}

func (c *testClient) doJSON(method, path string, body any, wantStatus int, out any) {
	c.t.Helper()
	status, data := c.do(method, path, body)
	if status != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d, body=%s", method, path, status, wantStatus, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.t.Fatalf("%s %s: unmarshal: %v body=%s", method, path, err, string(data))
		}
	}
}

// TestRecruiterAndCandidateJourney drives the whole flow over the wired
// router: signup, job, candidate intake, invite, the candidate session from
// welcome to thankyou, and the completed-interview analytics afterward.
func TestRecruiterAndCandidateJourney(t *testing.T) {
	srv := setupServer(t)
	c := &testClient{t: t, base: srv.URL}

	// protected routes reject anonymous callers
	if status, _ := c.do(http.MethodGet, "/v1/jobs", nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous /v1/jobs status = %d, want 401", status)
	}

	// signup
	var auth struct {
		Token     string `json:"token"`
		CompanyID string `json:"company_id"`
	}
	c.doJSON(http.MethodPost, "/v1/auth/signup", map[string]string{
		"company_name": "Acme", "name": "Rae Smith", "email": "rae@acme.test", "password": "s3cret",
	}, http.StatusCreated, &auth)
	c.token = auth.Token

	// re-registering the same email conflicts
	if status, body := c.do(http.MethodPost, "/v1/auth/signup", map[string]string{
		"company_name": "Other", "name": "Rae Again", "email": "rae@acme.test", "password": "pw2",
	}); status != http.StatusConflict || !bytes.Contains(body, []byte("Email already registered")) {
		t.Fatalf("duplicate signup: status %d body %s", status, string(body))
	}

	// create a job and see it in the list with zero counts
	var job struct {
		ID string `json:"id"`
	}
	c.doJSON(http.MethodPost, "/v1/jobs", map[string]string{
		"title": "Backend Engineer", "description": "Build the interview platform",
	}, http.StatusCreated, &job)

	var jobs []struct {
		ID              string `json:"id"`
		TotalCandidates int    `json:"total_candidates"`
	}
	c.doJSON(http.MethodGet, "/v1/jobs", nil, http.StatusOK, &jobs)
	if len(jobs) != 1 || jobs[0].TotalCandidates != 0 {
		t.Fatalf("jobs = %+v", jobs)
	}

	// candidate intake with a cv_analysis object
	var cand struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.doJSON(http.MethodPost, "/v1/jobs/"+job.ID+"/candidates", map[string]any{
		"name": "Sarah Chen", "email": "sarah@example.com",
		"cv_analysis": map[string]any{"summary": "strong", "skills": []string{"go"}, "experience_years": 5},
	}, http.StatusCreated, &cand)
	if cand.Status != "Applied" {
		t.Fatalf("candidate status = %q, want Applied", cand.Status)
	}

	// malformed cv_analysis is rejected before any write
	if status, _ := c.do(http.MethodPost, "/v1/jobs/"+job.ID+"/candidates", map[string]any{
		"name": "Bad Blob", "email": "bad@example.com",
		"cv_analysis": map[string]any{"skills": "go"},
	}); status != http.StatusBadRequest {
		t.Fatalf("bad cv_analysis status = %d, want 400", status)
	}

	// unknown status value is a 400
	if status, _ := c.do(http.MethodPatch, "/v1/candidates/"+cand.ID+"/status", map[string]string{
		"status": "Promoted",
	}); status != http.StatusBadRequest {
		t.Fatalf("bad status patch = %d, want 400", status)
	}

	// invite with a single question
	var invite struct {
		InterviewToken string `json:"interview_token"`
	}
	c.doJSON(http.MethodPost, "/v1/candidates/"+cand.ID+"/invite", map[string]any{
		"questions": []string{"Tell me about your Go experience."},
	}, http.StatusCreated, &invite)
	if invite.InterviewToken == "" {
		t.Fatal("empty interview token")
	}

	// a second invite conflicts while the candidate is scheduled
	if status, _ := c.do(http.MethodPost, "/v1/candidates/"+cand.ID+"/invite", nil); status != http.StatusConflict {
		t.Fatalf("second invite status = %d, want 409", status)
	}

	// candidate surface: unknown token is the terminal 404
	anon := &testClient{t: t, base: srv.URL}
	if status, body := anon.do(http.MethodGet, "/v1/interviews/token/interview_0_nothere00", nil); status != http.StatusNotFound || !bytes.Contains(body, []byte("error")) {
		t.Fatalf("unknown token: status %d body %s", status, string(body))
	}

	// welcome detail
	surface := "/v1/interviews/token/" + invite.InterviewToken
	var detail struct {
		CandidateName string `json:"candidate_name"`
		JobTitle      string `json:"job_title"`
		CompanyName   string `json:"company_name"`
	}
	anon.doJSON(http.MethodGet, surface, nil, http.StatusOK, &detail)
	if detail.CandidateName != "Sarah Chen" || detail.JobTitle != "Backend Engineer" || detail.CompanyName != "Acme" {
		t.Fatalf("detail = %+v", detail)
	}

	// session: welcome → question → record → review → redo → record → confirm
	var snap struct {
		Step           string `json:"step"`
		QuestionIndex  int    `json:"question_index"`
		Progress       int    `json:"progress"`
		QuestionText   string `json:"question_text"`
		Recording      bool   `json:"recording"`
		ReviewDuration int    `json:"review_duration"`
	}
	anon.doJSON(http.MethodGet, surface+"/session", nil, http.StatusOK, &snap)
	if snap.Step != "welcome" {
		t.Fatalf("initial step = %q", snap.Step)
	}

	anon.doJSON(http.MethodPost, surface+"/session/start", nil, http.StatusOK, &snap)
	if snap.Step != "question" || snap.Progress != 100 || snap.QuestionText == "" {
		t.Fatalf("after start: %+v", snap)
	}

	// confirm before review is a step violation
	if status, _ := anon.do(http.MethodPost, surface+"/session/confirm", nil); status != http.StatusConflict {
		t.Fatalf("early confirm status = %d, want 409", status)
	}

	anon.doJSON(http.MethodPost, surface+"/session/recording", nil, http.StatusOK, &snap)
	if !snap.Recording {
		t.Fatalf("recording flag not set: %+v", snap)
	}
	anon.doJSON(http.MethodDelete, surface+"/session/recording", nil, http.StatusOK, &snap)
	if snap.Step != "review" {
		t.Fatalf("after stop: %+v", snap)
	}

	anon.doJSON(http.MethodPost, surface+"/session/redo", nil, http.StatusOK, &snap)
	if snap.Step != "question" || snap.QuestionIndex != 0 {
		t.Fatalf("after redo: %+v", snap)
	}

	anon.doJSON(http.MethodPost, surface+"/session/recording", nil, http.StatusOK, &snap)
	anon.doJSON(http.MethodDelete, surface+"/session/recording", nil, http.StatusOK, &snap)
	anon.doJSON(http.MethodPost, surface+"/session/confirm", nil, http.StatusOK, &snap)
	if snap.Step != "thankyou" || snap.Progress != 100 {
		t.Fatalf("final step: %+v", snap)
	}

	// re-opening the surface after completion resumes at thankyou, never welcome
	anon.doJSON(http.MethodGet, surface+"/session", nil, http.StatusOK, &snap)
	if snap.Step != "thankyou" {
		t.Fatalf("reopened session step = %q, want thankyou", snap.Step)
	}

	// the candidate now reads Interview Completed
	var candidates []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.doJSON(http.MethodGet, "/v1/jobs/"+job.ID+"/candidates", nil, http.StatusOK, &candidates)
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}
	if candidates[0].Status != "Interview Completed" {
		t.Fatalf("candidate status = %q, want Interview Completed", candidates[0].Status)
	}

	// completed interview shows up with the floor score (placeholder text is short)
	var completed []struct {
		ID               string `json:"id"`
		PerformanceScore int    `json:"performance_score"`
		ResponseCount    int    `json:"response_count"`
	}
	c.doJSON(http.MethodGet, "/v1/interviews", nil, http.StatusOK, &completed)
	if len(completed) != 1 {
		t.Fatalf("completed = %+v", completed)
	}
	if completed[0].PerformanceScore != 20 || completed[0].ResponseCount != 1 {
		t.Fatalf("analytics = %+v", completed[0])
	}

	var responses []struct {
		QuestionIndex int    `json:"question_index"`
		ResponseText  string `json:"response_text"`
	}
	c.doJSON(http.MethodGet, "/v1/interviews/"+completed[0].ID+"/responses", nil, http.StatusOK, &responses)
	if len(responses) != 1 || responses[0].ResponseText != "Audio response recorded (0:00)" {
		t.Fatalf("responses = %+v", responses)
	}

	// a recruiter from another company cannot read these responses by id
	rival := &testClient{t: t, base: srv.URL}
	var rivalAuth struct {
		Token string `json:"token"`
	}
	rival.doJSON(http.MethodPost, "/v1/auth/signup", map[string]string{
		"company_name": "Globex", "name": "Pat Lee", "email": "pat@globex.test", "password": "pw",
	}, http.StatusCreated, &rivalAuth)
	rival.token = rivalAuth.Token

	if status, _ := rival.do(http.MethodGet, "/v1/interviews/"+completed[0].ID+"/responses", nil); status != http.StatusNotFound {
		t.Fatalf("cross-company responses status = %d, want 404", status)
	}
	var rivalCompleted []struct {
		ID string `json:"id"`
	}
	rival.doJSON(http.MethodGet, "/v1/interviews", nil, http.StatusOK, &rivalCompleted)
	if len(rivalCompleted) != 0 {
		t.Fatalf("rival sees %d completed interviews, want 0", len(rivalCompleted))
	}
}

func TestKitEndpoints(t *testing.T) {
	srv := setupServer(t)
	c := &testClient{t: t, base: srv.URL}

	var auth struct {
		Token string `json:"token"`
	}
	c.doJSON(http.MethodPost, "/v1/auth/signup", map[string]string{
		"company_name": "Acme", "name": "Rae", "email": "rae@acme.test", "password": "pw",
	}, http.StatusCreated, &auth)
	c.token = auth.Token

	var kit struct {
		ID string `json:"id"`
	}
	c.doJSON(http.MethodPost, "/v1/kits", map[string]any{
		"name": "Backend round", "questions": []string{"Q1", "Q2"},
	}, http.StatusCreated, &kit)

	if status, _ := c.do(http.MethodPost, "/v1/kits", map[string]any{"name": "empty"}); status != http.StatusBadRequest {
		t.Fatalf("kit without questions status = %d, want 400", status)
	}

	var kits []struct {
		Name      string   `json:"name"`
		Questions []string `json:"questions"`
	}
	c.doJSON(http.MethodGet, "/v1/kits", nil, http.StatusOK, &kits)
	if len(kits) != 1 || len(kits[0].Questions) != 2 {
		t.Fatalf("kits = %+v", kits)
	}

	c.doJSON(http.MethodPut, "/v1/kits/"+kit.ID, map[string]any{
		"name": "Backend round v2", "questions": []string{"Q1"},
	}, http.StatusOK, nil)

	// no engine configured: generation degrades gracefully
	if status, _ := c.do(http.MethodPost, "/v1/kits/generate", map[string]any{"title": "SRE"}); status != http.StatusServiceUnavailable {
		t.Fatalf("generate without engine status = %d, want 503", status)
	}

	if status, _ := c.do(http.MethodDelete, "/v1/kits/"+kit.ID, nil); status != http.StatusNoContent {
		t.Fatalf("delete kit status = %d, want 204", status)
	}

	// catch-all answers JSON
	if status, body := c.do(http.MethodGet, "/v1/nope", nil); status != http.StatusNotFound || !bytes.Contains(body, []byte(`"error"`)) {
		t.Fatalf("catch-all: status %d body %s", status, string(body))
	}
}
