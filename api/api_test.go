package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(docs ...workflow.Document) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(memory.New(docs...), logger)
}

func do(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestWorkflowLifecycle(t *testing.T) {
	app := newTestApp()
	doc := workflow.ToDocument(workflow.Seed(), workflow.Metadata{Name: "Signup"})

	resp := do(t, app, http.MethodPost, "/workflows", doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[workflow.Document](t, resp)
	require.NotEmpty(t, created.ID)

	created.Name = "Signup v2"
	resp = do(t, app, http.MethodPut, "/workflows/"+created.ID, created)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodPatch, "/workflows/"+created.ID, map[string]bool{"isFavorite": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decode[workflow.Document](t, resp)
	assert.True(t, patched.IsFavorite)
	assert.Equal(t, "Signup v2", patched.Name)

	resp = do(t, app, http.MethodGet, "/workflows", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	docs := decode[[]workflow.Document](t, resp)
	require.Len(t, docs, 1)
	assert.Len(t, docs[0].Nodes, 2)

	resp = do(t, app, http.MethodDelete, "/workflows/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/workflows/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSearch(t *testing.T) {
	app := newTestApp(
		workflow.Document{ID: "1", Name: "Billing"},
		workflow.Document{ID: "2", Name: "Onboarding"},
	)

	resp := do(t, app, http.MethodGet, "/workflows?q=bill", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	docs := decode[[]workflow.Document](t, resp)
	require.Len(t, docs, 1)
	assert.Equal(t, "1", docs[0].ID)
}

func TestRejectsInvalidBodies(t *testing.T) {
	app := newTestApp(workflow.Document{ID: "1"})

	dangling := workflow.Document{
		Name:  "broken",
		Nodes: []workflow.DocumentNode{{ID: "start", Type: workflow.KindStart}},
		Edges: []workflow.DocumentEdge{{ID: "e", Source: "start", Target: "ghost"}},
	}
	resp := do(t, app, http.MethodPost, "/workflows", dangling)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, app, http.MethodPut, "/workflows/1", dangling)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestCreateRejectsTakenID(t *testing.T) {
	app := newTestApp(workflow.ToDocument(workflow.Seed(), workflow.Metadata{ID: "1", Name: "Original"}))
	doc := workflow.ToDocument(workflow.Seed(), workflow.Metadata{ID: "1", Name: "Intruder"})

	resp := do(t, app, http.MethodPost, "/workflows", doc)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/workflows", nil)
	docs := decode[[]workflow.Document](t, resp)
	require.Len(t, docs, 1)
	assert.Equal(t, "Original", docs[0].Name)
}

func TestRequestLogStatus(t *testing.T) {
	var buf bytes.Buffer
	app := New(memory.New(), slog.New(slog.NewJSONHandler(&buf, nil)))

	cases := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/nowhere", http.StatusNotFound},
		{http.MethodDelete, "/workflows/nope", http.StatusNotFound},
		{http.MethodGet, "/workflows", http.StatusOK},
	}
	for _, tc := range cases {
		buf.Reset()
		resp := do(t, app, tc.method, tc.target, nil)
		require.Equal(t, tc.want, resp.StatusCode)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line), tc.target)
		assert.Equal(t, "request", line["msg"])
		assert.Equal(t, tc.target, line["path"])
		assert.EqualValues(t, tc.want, line["status"], tc.target)
	}
}

func TestMissingWorkflow(t *testing.T) {
	app := newTestApp()
	doc := workflow.ToDocument(workflow.Seed(), workflow.Metadata{})

	resp := do(t, app, http.MethodPut, "/workflows/nope", doc)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodPatch, "/workflows/nope", map[string]bool{"isFavorite": true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSchemaRoutesNeedSchemaManager(t *testing.T) {
	app := newTestApp()

	resp := do(t, app, http.MethodPost, "/schema", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
