package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVikunja is a minimal task server for command tests
type fakeVikunja struct {
	mu sync.Mutex

	labelsStatus      int
	createLabelStatus int

	tasks         []map[string]any
	taskProjects  []int64
	createdLabels []string
	attached      []int64
}

// recorded returns copies of what the server received
func (f *fakeVikunja) recorded() (tasks []map[string]any, projects []int64, created []string, attached []int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append(tasks, f.tasks...), append(projects, f.taskProjects...),
		append(created, f.createdLabels...), append(attached, f.attached...)
}

func (f *fakeVikunja) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Inbox"},{"id":2,"title":"Work","is_favorite":true}]`))
	})
	mux.HandleFunc("GET /api/v1/labels", func(w http.ResponseWriter, r *http.Request) {
		if f.labelsStatus != 0 {
			w.WriteHeader(f.labelsStatus)
			_, _ = w.Write([]byte(`{"message":"labels are disabled"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":7,"title":"Research","hex_color":"336699"}]`))
	})
	mux.HandleFunc("PUT /api/v1/labels", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.createdLabels = append(f.createdLabels, body.Title)
		f.mu.Unlock()

		if f.createLabelStatus != 0 {
			w.WriteHeader(f.createLabelStatus)
			_, _ = w.Write([]byte(`{"message":"label service down"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 101, "title": body.Title})
	})
	mux.HandleFunc("PUT /api/v1/projects/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		projectID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.tasks = append(f.tasks, body)
		f.taskProjects = append(f.taskProjects, projectID)
		f.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{"id": 99, "title": body["title"], "project_id": projectID})
	})
	mux.HandleFunc("PUT /api/v1/tasks/{id}/labels", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LabelID int64 `json:"label_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.attached = append(f.attached, body.LabelID)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	})
	return mux
}

// setupCLI points the commands at a fake server and a fresh home directory
func setupCLI(t *testing.T, opts ...func(*fakeVikunja)) (*fakeVikunja, string) {
	t.Helper()
	f := &fakeVikunja{}
	for _, opt := range opts {
		opt(f)
	}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("QUICKADD_HOME", home)
	t.Setenv("QUICKADD_URL", srv.URL)
	t.Setenv("QUICKADD_TOKEN", "tk_test")

	// Flag variables outlive a single execution
	addProject, addPriority = 0, 0
	addDue, addReminder, addDescription = "", "", ""
	addURL, addPageTitle = "", ""
	addLabels = nil
	projectsFavorites, projectsSort = false, ""
	return f, home
}

// runCLI executes the root command and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = w
	out := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		out <- string(data)
	}()

	rootCmd.SetArgs(args)
	runErr := rootCmd.ExecuteContext(context.Background())

	os.Stdout = stdout
	_ = w.Close()
	return <-out, runErr
}

func openState(t *testing.T, home string) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(home, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func storePending(t *testing.T, home string, c *model.Capture) {
	t.Helper()
	database, err := db.Open(filepath.Join(home, "state.db"))
	require.NoError(t, err)
	require.NoError(t, database.SetPendingCapture(context.Background(), c))
	require.NoError(t, database.Close())
}

func TestProjects_ListsWithoutClaimingPendingCapture(t *testing.T) {
	_, home := setupCLI(t)
	storePending(t, home, capture.LinkCapture("https://example.com/paper.pdf", "The paper"))

	out, err := runCLI(t, "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "Inbox")
	assert.Contains(t, out, "2 projects, 1 favorites")

	pending, err := openState(t, home).PeekPendingCapture(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "The paper", pending.Title)
}

func TestAdd_PrefillsFromPage(t *testing.T) {
	f, _ := setupCLI(t)

	out, err := runCLI(t, "add", "--url", "https://go.dev/blog", "--page-title", "The Go Blog", "-P", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Added to [Inbox]: "The Go Blog" (#99)`)

	tasks, projects, _, _ := f.recorded()
	require.Len(t, tasks, 1)
	assert.Equal(t, "The Go Blog", tasks[0]["title"])
	assert.Equal(t, `<a href="https://go.dev/blog">The Go Blog</a>`, tasks[0]["description"])
	assert.Equal(t, []int64{1}, projects)
}

func TestAdd_WithoutTitleFilesPendingCapture(t *testing.T) {
	f, home := setupCLI(t)
	storePending(t, home, capture.LinkCapture("https://example.com/paper.pdf", "The paper"))

	_, err := runCLI(t, "add", "--page-title", "Ignored")
	require.NoError(t, err)

	tasks, projects, _, _ := f.recorded()
	require.Len(t, tasks, 1)
	assert.Equal(t, "The paper", tasks[0]["title"])
	// Smart order puts the favorite first
	assert.Equal(t, []int64{2}, projects)

	pending, err := openState(t, home).PeekPendingCapture(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestAdd_WithTitleLeavesPendingCapture(t *testing.T) {
	f, home := setupCLI(t)
	storePending(t, home, capture.LinkCapture("https://example.com/paper.pdf", "The paper"))

	_, err := runCLI(t, "add", "Buy milk")
	require.NoError(t, err)
	tasks, _, _, _ := f.recorded()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0]["title"])

	pending, err := openState(t, home).PeekPendingCapture(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestAdd_IgnoresLabelsWhenUnsupported(t *testing.T) {
	f, _ := setupCLI(t, func(f *fakeVikunja) { f.labelsStatus = http.StatusNotFound })

	out, err := runCLI(t, "add", "Read later", "-l", "research")
	require.NoError(t, err)
	assert.Contains(t, out, "Labels are not available on this server")
	assert.Contains(t, out, `"Read later" (#99)`)

	tasks, _, created, attached := f.recorded()
	assert.Len(t, tasks, 1)
	assert.Empty(t, created)
	assert.Empty(t, attached)
}

func TestAdd_ReportsLabelFailures(t *testing.T) {
	f, _ := setupCLI(t, func(f *fakeVikunja) { f.createLabelStatus = http.StatusInternalServerError })

	out, err := runCLI(t, "add", "Read later", "-l", "Research", "-l", "Someday")
	require.NoError(t, err)
	assert.Contains(t, out, `"Read later" (#99)`)
	assert.Contains(t, out, `Label "Someday" could not be created`)
	assert.Contains(t, out, "label service down")

	_, _, created, attached := f.recorded()
	assert.Equal(t, []string{"Someday"}, created)
	assert.Equal(t, []int64{7}, attached)
}
