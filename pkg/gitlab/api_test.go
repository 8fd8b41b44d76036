package gitlab

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"
)

// newTestClient returns a client bound to project 1, pointed at the given
// handler with the rate limiter opened up.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	glc, err := gitlab.NewClient("test-token-1234567890", gitlab.WithBaseURL(srv.URL))
	require.NoError(t, err)

	return &Client{
		client:    glc,
		projectID: "1",
		limiter:   rate.NewLimiter(rate.Inf, 1),
		log:       logger.NoLogger(),
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestEnsureLabelSkipsExisting(t *testing.T) {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/projects/1/labels/has-pr", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 1, "name": "has-pr", "color": "#0E8A16"}`)
	})
	mux.HandleFunc("POST /api/v4/projects/1/labels", func(w http.ResponseWriter, _ *http.Request) {
		created = true
		w.WriteHeader(http.StatusCreated)
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.EnsureLabel(context.Background(), "has-pr", "#0E8A16", "desc"))
	assert.False(t, created, "existing label must not be recreated")
}

func TestListOpenIssuesSortsAscending(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/projects/1/issues", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 109, "iid": 9, "title": "Random Issue #9", "state": "opened", "labels": []},
			{"id": 104, "iid": 4, "title": "Random Issue #4", "state": "opened", "labels": ["has-pr"]}
		]`)
	})

	c := newTestClient(t, mux)
	issues, err := c.ListOpenIssues(context.Background())

	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, 4, issues[0].IID)
	assert.Equal(t, []string{"has-pr"}, issues[0].Labels)
	assert.Equal(t, 9, issues[1].IID)
}

func TestGetMergeRequestApprovalState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v4/projects/1/merge_requests/3", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"iid": 3, "title": "Random Bot PR", "state": "opened",
			"source_branch": "auto/bot-pr-4-0-1234", "labels": ["has-issue"]}`)
	})
	mux.HandleFunc("GET /api/v4/projects/1/merge_requests/3/approvals", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"approved_by": [{"user": {"username": "alice"}}]}`)
	})

	c := newTestClient(t, mux)
	mr, err := c.GetMergeRequest(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, mr.Approved)
	assert.Equal(t, "auto/bot-pr-4-0-1234", mr.SourceBranch)
}

func TestAcceptMergeRequestRemovesSourceBranch(t *testing.T) {
	var body string
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v4/projects/1/merge_requests/3/merge", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"iid": 3, "state": "merged"}`)
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.AcceptMergeRequest(context.Background(), 3))
	assert.Contains(t, body, `"should_remove_source_branch":true`)
}
