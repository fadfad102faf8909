package vikunja

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/existflow/quickadd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	c, err := NewClient(srv.URL, "tk_test", opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient("", "token")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewClient("https://tasks.example.com", "  ")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewClient_UsesGivenTransport(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tk_test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":1,"username":"ada"}`))
	}))
	t.Cleanup(srv.Close)

	// The test certificate is only trusted by the server's own client
	plain, err := NewClient(srv.URL, "tk_test", WithTimeout(2*time.Second))
	require.NoError(t, err)
	_, err = plain.TestConnection(context.Background())
	require.Error(t, err)

	trusted, err := NewClient(srv.URL, "tk_test", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	user, err := trusted.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}

func TestCreateTask_SendsPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects/7/tasks", r.URL.Path)
		assert.Equal(t, "Bearer tk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":42,"title":"Read later","project_id":7}`))
	})

	due := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	task, err := c.CreateTask(context.Background(), 7, TaskFields{
		Title:       "Read later",
		Description: `<a href="https://example.com">Example</a>`,
		DueAt:       &due,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), task.ID)

	assert.Equal(t, "Read later", got["title"])
	assert.Equal(t, float64(7), got["project_id"])
	assert.Equal(t, "2024-03-09T23:59:00.000Z", got["due_date"])
	assert.NotContains(t, got, "priority")
	assert.NotContains(t, got, "reminder_dates")
}

func TestCreateTask_SingleReminder(t *testing.T) {
	var got struct {
		Priority      int      `json:"priority"`
		ReminderDates []string `json:"reminder_dates"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	_, err := c.CreateTask(context.Background(), 3, TaskFields{Title: "x", Priority: model.PriorityHigh, ReminderAt: &at})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Priority)
	assert.Equal(t, []string{"2024-03-09T09:00:00.000Z"}, got.ReminderDates)
}

func TestCreateTask_RequestFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad title"}`))
	})

	_, err := c.CreateTask(context.Background(), 1, TaskFields{Title: "x"})
	require.Error(t, err)

	var rf *RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusBadRequest, rf.Status)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "bad title")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"bad title","error":"x"}`, "bad title"},
		{"error field", 500, `{"error":"boom"}`, "boom"},
		{"other json", 422, `{ "code": 1 }`, `{"code":1}`},
		{"plain text", 502, "upstream down\n", "upstream down"},
		{"empty body", 404, "", "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.status, []byte(tt.body)))
		})
	}
}

const bareListing = `[
	{"id": -1, "title": "Favorites"},
	{"id": 1, "title": "Inbox", "views": [{"created": "2024-01-01T10:00:00Z"}, {"created": "2024-03-01T10:00:00Z"}]},
	{"id": 2, "title": "Work", "is_favorite": true, "views": [{"updated": "2024-02-01T10:00:00Z"}]},
	{"id": 3, "title": "Home", "views": [{"created": "not a date"}]},
	{"id": 4, "title": "Later"}
]`

const wrappedListingBody = `{
	"projects": [
		{"id": 1, "title": "Inbox", "views": [{"created": "2024-01-01T10:00:00Z"}, {"created": "2024-03-01T10:00:00Z"}]},
		{"id": 2, "title": "Work", "is_favorite": true, "views": [{"updated": "2024-02-01T10:00:00Z"}]},
		{"id": 3, "title": "Home", "views": [{"created": "not a date"}]},
		{"id": 4, "title": "Later"}
	],
	"favorites": [2],
	"recents": [1, 2]
}`

func listingServer(t *testing.T, body string, opts ...Option) *Client {
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}, opts...)
}

func TestListProjects_BareArray(t *testing.T) {
	list, err := listingServer(t, bareListing).ListProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, list.Projects, 4)
	for _, p := range list.Projects {
		assert.Positive(t, p.ID)
	}
	assert.Equal(t, []int64{2}, list.Favorites)
	assert.Equal(t, []int64{1, 2}, list.Recents)
	assert.True(t, list.Has(4))
	assert.False(t, list.Has(-1))
}

func TestListProjects_ShapesNormalizeIdentically(t *testing.T) {
	bare, err := listingServer(t, bareListing).ListProjects(context.Background())
	require.NoError(t, err)
	wrapped, err := listingServer(t, wrappedListingBody).ListProjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, bare, wrapped)
}

func TestListProjects_WrappedPrunesStaleIDs(t *testing.T) {
	body := `{"projects":[{"id":5,"title":"A"},{"id":-2,"title":"Saved filter"}],"favorites":[5,9],"recentProjects":[-2,5]}`
	list, err := listingServer(t, body).ListProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, list.Projects, 1)
	assert.Equal(t, []int64{5}, list.Favorites)
	assert.Equal(t, []int64{5}, list.Recents)
}

func TestListProjects_RecentsCappedAtFive(t *testing.T) {
	body := `[
		{"id":1,"title":"a","views":[{"created":"2024-01-01T00:00:00Z"}]},
		{"id":2,"title":"b","views":[{"created":"2024-01-02T00:00:00Z"}]},
		{"id":3,"title":"c","views":[{"created":"2024-01-03T00:00:00Z"}]},
		{"id":4,"title":"d","views":[{"created":"2024-01-04T00:00:00Z"}]},
		{"id":5,"title":"e","views":[{"created":"2024-01-05T00:00:00Z"}]},
		{"id":6,"title":"f","views":[{"viewed_at":"2024-01-06T00:00:00.123Z"}]}
	]`
	list, err := listingServer(t, body).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 5, 4, 3, 2}, list.Recents)
}

func TestListProjects_MalformedShape(t *testing.T) {
	for _, body := range []string{`"projects"`, `{"items":[]}`, `42`} {
		_, err := listingServer(t, body).ListProjects(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

type recordingState struct {
	favorites, recents []int64
	err                error
}

func (s *recordingState) SaveProjectMetadata(_ context.Context, favorites, recents []int64) error {
	s.favorites, s.recents = favorites, recents
	return s.err
}

func TestListProjects_PersistsMetadata(t *testing.T) {
	state := &recordingState{}
	_, err := listingServer(t, bareListing, WithStateWriter(state)).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, state.favorites)
	assert.Equal(t, []int64{1, 2}, state.recents)

	// Storage failures do not fail the listing
	failing := &recordingState{err: errors.New("disk full")}
	list, err := listingServer(t, bareListing, WithStateWriter(failing)).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, list.Projects, 4)
}

func TestListLabels_Unsupported(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := c.ListLabels(context.Background())
		assert.ErrorIs(t, err, ErrLabelsUnsupported)
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.ListLabels(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLabelsUnsupported)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
}

func TestCreateLabel_RandomColor(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/labels", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":11,"title":"reading","hex_color":"` + got["hex_color"] + `"}`))
	})

	label, err := c.CreateLabel(context.Background(), "reading", "")
	require.NoError(t, err)
	assert.Equal(t, int64(11), label.IDValue())
	assert.Regexp(t, regexp.MustCompile(`^#[0-9a-f]{6}$`), got["hex_color"])
}

func TestRandomColor_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, RandomColor())
	}
}

func TestAttachLabel_Body(t *testing.T) {
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/42/labels", r.URL.Path)
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"label_id":11}`))
	})

	require.NoError(t, c.AttachLabel(context.Background(), 42, 11))
	assert.JSONEq(t, `{"label_id":11}`, string(body))
}

func TestTestConnection_InvalidTokenVersusUnreachable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/user", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":11,"message":"invalid token"}`))
	})
	_, err := c.TestConnection(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.NotErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "invalid token")

	// A closed server refuses connections
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	down, err := NewClient(url, "tk_test", WithTimeout(2*time.Second))
	require.NoError(t, err)
	_, err = down.TestConnection(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
}

func TestTestConnection_ReturnsUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"username":"ada","name":"Ada Lovelace"}`))
	})
	user, err := c.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.DisplayName())
}
