package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amrgaberm/codesense/internal/application"
	appreview "github.com/amrgaberm/codesense/internal/application/review"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
)

const testSecret = "webhook-secret"

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Analyze(ctx context.Context, req domai.Request) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) AnalyzeDiff(ctx context.Context, req domai.DiffRequest) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newTestWebhook(model string) *Webhook {
	svc := &appreview.Service{
		Client: &fakeClient{response: model},
		Clock:  application.SystemClock{},
	}
	return NewWebhook(testSecret, svc, NewClient(""))
}

func post(h *Webhook, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(string(body)))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_MissingSignature(t *testing.T) {
	h := newTestWebhook("")
	rec := post(h, []byte(`{}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandle_InvalidSignature(t *testing.T) {
	h := newTestWebhook("")
	rec := post(h, []byte(`{}`), map[string]string{
		"X-Hub-Signature-256": "sha256=" + strings.Repeat("ab", 32),
		"X-GitHub-Event":      "pull_request",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandle_MalformedSignature(t *testing.T) {
	h := newTestWebhook("")
	rec := post(h, []byte(`{}`), map[string]string{
		"X-Hub-Signature-256": "sha256=not-hex",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandle_IgnoresOtherEvents(t *testing.T) {
	h := newTestWebhook("")
	body := []byte(`{}`)
	rec := post(h, body, map[string]string{
		"X-Hub-Signature-256": sign(body),
		"X-GitHub-Event":      "push",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ignored"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandle_IgnoresClosedAction(t *testing.T) {
	h := newTestWebhook("")
	body := []byte(`{"action": "closed", "pull_request": {"number": 7}}`)
	rec := post(h, body, map[string]string{
		"X-Hub-Signature-256": sign(body),
		"X-GitHub-Event":      "pull_request",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ignored"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandle_QueuesOpenedPullRequest(t *testing.T) {
	srv := gitHubStub(t, nil, make(chan string, 1))
	svc := &appreview.Service{
		Client: &fakeClient{response: `{"summary": "ok", "issues": []}`},
		Clock:  application.SystemClock{},
	}
	h := NewWebhook(testSecret, svc, &Client{httpc: srv.Client(), baseURL: srv.URL})
	body := []byte(`{"action": "opened", "pull_request": {"number": 7}, "repository": {"full_name": "acme/repo"}}`)
	rec := post(h, body, map[string]string{
		"X-Hub-Signature-256": sign(body),
		"X-GitHub-Event":      "pull_request",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var ack map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack["status"] != "queued" {
		t.Errorf("ack = %+v", ack)
	}
}

// gitHubStub fakes the two REST endpoints the webhook touches.
func gitHubStub(t *testing.T, files []PullRequestFile, comments chan<- string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/repo/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(files)
	})
	mux.HandleFunc("/repos/acme/repo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode comment: %v", err)
		}
		comments <- payload["body"]
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProcess_PostsReviewComment(t *testing.T) {
	comments := make(chan string, 1)
	srv := gitHubStub(t, []PullRequestFile{
		{Filename: "app.py", Status: "modified", Patch: "@@ -1 +1 @@\n-x\n+y"},
		{Filename: "gone.py", Status: "removed", Patch: "@@ -1 +0 @@\n-x"},
		{Filename: "README.md", Status: "modified", Patch: "@@ -1 +1 @@\n-a\n+b"},
		{Filename: "nodiff.py", Status: "modified"},
	}, comments)

	svc := &appreview.Service{
		Client: &fakeClient{response: `{"summary": "one", "issues": [{"title": "x", "severity": "high", "category": "bug"}]}`},
		Clock:  application.SystemClock{},
	}
	gh := &Client{httpc: srv.Client(), baseURL: srv.URL}
	h := NewWebhook(testSecret, svc, gh)

	var ev pullRequestEvent
	if err := json.Unmarshal([]byte(`{"action": "opened", "pull_request": {"number": 7}, "repository": {"full_name": "acme/repo"}}`), &ev); err != nil {
		t.Fatal(err)
	}
	h.process(ev)

	select {
	case comment := <-comments:
		if !strings.Contains(comment, "app.py") {
			t.Errorf("comment missing reviewed file: %s", comment)
		}
		// Removed, unsupported and patch-less files are skipped.
		for _, skipped := range []string{"gone.py", "README.md", "nodiff.py"} {
			if strings.Contains(comment, skipped) {
				t.Errorf("comment mentions skipped file %s", skipped)
			}
		}
		if !strings.Contains(comment, "Automated code review by CodeSense AI") {
			t.Errorf("comment missing footer: %s", comment)
		}
	default:
		t.Fatal("no comment posted")
	}
}

func TestClient_CreateIssueComment_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := &Client{httpc: srv.Client(), baseURL: srv.URL}
	err := c.CreateIssueComment(context.Background(), "acme/repo", 7, "hi")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("err = %v, want 403 error", err)
	}
}
