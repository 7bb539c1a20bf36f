package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// fakeEngine records every request it receives and answers using the handler registered for its method and path.
type fakeEngine struct {
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc
}

func newFakeEngine(t *testing.T, handlers map[string]http.HandlerFunc) (*fakeEngine, *httptest.Server) {
	f := &fakeEngine{handlers: handlers}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		f.mu.Unlock()
		if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeEngine) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest{}, f.requests...)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newBackend(t *testing.T, kind string, address string) Backend {
	b, err := New(configuration.BackendConfig{
		Kind:             kind,
		Address:          address + "/",
		Index:            "movies",
		ApiKey:           "bench-key",
		RequestTimeout:   5 * time.Second,
		TaskPollInterval: time.Millisecond,
		MaxTaskPolls:     10,
	})
	require.NoError(t, err)
	return b
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(configuration.BackendConfig{Kind: "solr"})
	assert.Error(t, err)
}

func TestNew_Names(t *testing.T) {
	for _, kind := range []string{configuration.BackendLnx, configuration.BackendMeilisearch, configuration.BackendTypesense} {
		assert.Equal(t, kind, newBackend(t, kind, "http://localhost").Name())
	}
}

func TestLnx_Search(t *testing.T) {
	engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/search": respond(http.StatusOK, `{"hits":[]}`),
	})
	b := newBackend(t, configuration.BackendLnx, server.URL)

	status, err := b.Search(context.Background(), "star wa")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	requests := engine.recorded()
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"query":{"fuzzy":{"ctx":"star wa"}}}`, requests[0].Body)
}

func TestLnx_Prep(t *testing.T) {
	engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"DELETE /indexes/movies/documents/clear": respond(http.StatusNotFound, `{}`),
	})
	b := newBackend(t, configuration.BackendLnx, server.URL)

	require.NoError(t, b.Prep(context.Background(), json.RawMessage(`[{"title":"Alien"}]`)))

	requests := engine.recorded()
	require.Len(t, requests, 3)
	assert.Equal(t, "DELETE /indexes/movies/documents/clear", requests[0].Method+" "+requests[0].Path)
	assert.Equal(t, "POST /indexes/movies/documents", requests[1].Method+" "+requests[1].Path)
	assert.JSONEq(t, `[{"title":"Alien"}]`, requests[1].Body)
	assert.Equal(t, "POST /indexes/movies/commit", requests[2].Method+" "+requests[2].Path)
}

// dropConnection closes the connection without answering, which the client sees as a transport error.
func dropConnection(w http.ResponseWriter, _ *http.Request) {
	conn, _, err := w.(http.Hijacker).Hijack()
	if err != nil {
		return
	}
	_ = conn.Close()
}

func TestPrep_UnreachableClearFails(t *testing.T) {
	tests := map[string]struct {
		kind       string
		clearRoute string
		loadRoute  string
	}{
		"lnx": {
			kind:       configuration.BackendLnx,
			clearRoute: "DELETE /indexes/movies/documents/clear",
			loadRoute:  "POST /indexes/movies/documents",
		},
		"meilisearch": {
			kind:       configuration.BackendMeilisearch,
			clearRoute: "DELETE /indexes/movies/documents",
			loadRoute:  "POST /indexes/movies/documents",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
				tc.clearRoute: dropConnection,
			})
			b := newBackend(t, tc.kind, server.URL)

			err := b.Prep(context.Background(), json.RawMessage(`[]`))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "clearing existing documents")
			for _, r := range engine.recorded() {
				assert.NotEqual(t, tc.loadRoute, r.Method+" "+r.Path, "documents must not be loaded after a failed clear")
			}
		})
	}
}

func TestLnx_PrepFailsOnRejectedDocuments(t *testing.T) {
	_, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/documents": respond(http.StatusBadRequest, `{"error":"bad"}`),
	})
	b := newBackend(t, configuration.BackendLnx, server.URL)

	assert.Error(t, b.Prep(context.Background(), json.RawMessage(`[]`)))
}

func TestMeilisearch_Search(t *testing.T) {
	engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/search": respond(http.StatusServiceUnavailable, `{}`),
	})
	b := newBackend(t, configuration.BackendMeilisearch, server.URL)

	status, err := b.Search(context.Background(), "alien")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	requests := engine.recorded()
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"q":"alien"}`, requests[0].Body)
}

func TestMeilisearch_PrepPollsUntilSucceeded(t *testing.T) {
	var polls int
	var mu sync.Mutex
	engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/documents": respond(http.StatusAccepted, `{"uid":42}`),
		"GET /tasks/42": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			polls++
			n := polls
			mu.Unlock()
			if n < 3 {
				respond(http.StatusOK, `{"status":"processing"}`)(w, r)
				return
			}
			respond(http.StatusOK, `{"status":"succeeded","startedAt":"2022-01-01T00:00:00Z","finishedAt":"2022-01-01T00:00:02Z"}`)(w, r)
		},
	})
	b := newBackend(t, configuration.BackendMeilisearch, server.URL)

	require.NoError(t, b.Prep(context.Background(), json.RawMessage(`[{"id":1}]`)))

	mu.Lock()
	assert.Equal(t, 3, polls)
	mu.Unlock()
	requests := engine.recorded()
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/indexes/movies/documents", requests[0].Path)
}

func TestMeilisearch_PrepAcceptsTaskUid(t *testing.T) {
	_, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/documents": respond(http.StatusAccepted, `{"taskUid":7}`),
		"GET /tasks/7":                   respond(http.StatusOK, `{"status":"succeeded"}`),
	})
	b := newBackend(t, configuration.BackendMeilisearch, server.URL)

	assert.NoError(t, b.Prep(context.Background(), json.RawMessage(`[]`)))
}

func TestMeilisearch_PrepFailedTask(t *testing.T) {
	var polls int
	var mu sync.Mutex
	_, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/documents": respond(http.StatusAccepted, `{"uid":1}`),
		"GET /tasks/1": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			polls++
			mu.Unlock()
			respond(http.StatusOK, `{"status":"failed","error":{"message":"invalid document"}}`)(w, r)
		},
	})
	b := newBackend(t, configuration.BackendMeilisearch, server.URL)

	err := b.Prep(context.Background(), json.RawMessage(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document")
	mu.Lock()
	assert.Equal(t, 1, polls, "a failed task must not be polled again")
	mu.Unlock()
}

func TestMeilisearch_PrepGivesUp(t *testing.T) {
	_, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /indexes/movies/documents": respond(http.StatusAccepted, `{"uid":1}`),
		"GET /tasks/1":                   respond(http.StatusOK, `{"status":"enqueued"}`),
	})
	b := newBackend(t, configuration.BackendMeilisearch, server.URL)

	assert.Error(t, b.Prep(context.Background(), json.RawMessage(`[]`)))
}

func TestTypesense_Search(t *testing.T) {
	engine, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /collections/movies/documents/search": respond(http.StatusOK, `{}`),
	})
	b := newBackend(t, configuration.BackendTypesense, server.URL)

	status, err := b.Search(context.Background(), "the matrix")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	requests := engine.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "q=the+matrix", requests[0].Query)
	assert.Equal(t, "bench-key", requests[0].Header.Get(typesenseApiKeyHeader))
	assert.Empty(t, requests[0].Body)
}

func TestTypesense_PrepRequiresOk(t *testing.T) {
	_, server := newFakeEngine(t, map[string]http.HandlerFunc{
		"POST /collections/movies/documents": respond(http.StatusConflict, `{"message":"exists"}`),
	})
	b := newBackend(t, configuration.BackendTypesense, server.URL)

	err := b.Prep(context.Background(), json.RawMessage(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestSearch_TransportError(t *testing.T) {
	_, server := newFakeEngine(t, nil)
	server.Close()
	b := newBackend(t, configuration.BackendLnx, server.URL)

	_, err := b.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusNoContent))
	assert.False(t, IsSuccess(http.StatusMovedPermanently))
	assert.False(t, IsSuccess(http.StatusInternalServerError))
}
