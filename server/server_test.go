package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/repository"
	"github.com/vidscope/vidscope/pkg/session"
	"github.com/vidscope/vidscope/server/mocks"
)

var testDBCounter int64

// testEnv bundles a server wired to real repositories on an in-memory
// database, with the LLM-facing collaborators mocked
type testEnv struct {
	srv        *Server
	ts         *httptest.Server
	repos      *repository.Repositories
	sessions   *session.Service
	analyzer   *mocks.AnalyzerMock
	memEngine  *mocks.MemoryEngineMock
	searcher   *mocks.SearcherMock
	generator  *mocks.GeneratorMock
	blindSpots *mocks.BlindSpotterMock
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:servertest_%d?mode=memory&cache=shared", n)
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return "127.0.0.1:0", 30 * time.Second
		},
		AnalysisTTLFunc: func() time.Duration {
			return 7 * 24 * time.Hour
		},
	}

	env := &testEnv{
		repos:      repos,
		sessions:   session.NewService(repos.Session, repos.Stats, session.Config{}),
		analyzer:   &mocks.AnalyzerMock{},
		memEngine:  &mocks.MemoryEngineMock{},
		searcher:   &mocks.SearcherMock{},
		generator:  &mocks.GeneratorMock{},
		blindSpots: &mocks.BlindSpotterMock{},
	}

	env.srv = New(cfg, Deps{
		Analyzer:   env.analyzer,
		Memory:     env.memEngine,
		Searcher:   env.searcher,
		Generator:  env.generator,
		BlindSpots: env.blindSpots,
		Repos:      repos,
		Sessions:   env.sessions,
	}, "test", false)

	env.ts = httptest.NewServer(env.srv.router)
	t.Cleanup(env.ts.Close)

	return env
}

// do performs a request against the test server and decodes the JSON response
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestServer_New(t *testing.T) {
	env := setupTestServer(t)
	assert.NotNil(t, env.srv)
	assert.Equal(t, "test", env.srv.version)
	assert.False(t, env.srv.debug)
}

func TestServer_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	env := setupTestServer(t)
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
		},
		AnalysisTTLFunc: func() time.Duration { return time.Hour },
	}
	srv := New(cfg, Deps{
		Analyzer:   env.analyzer,
		Memory:     env.memEngine,
		Searcher:   env.searcher,
		Generator:  env.generator,
		BlindSpots: env.blindSpots,
		Repos:      env.repos,
		Sessions:   env.sessions,
	}, "1.0.0", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	// wait for the server to come up
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_StatusHandler(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, body["time"])
}

func TestServer_AppInfoHeader(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "vidscope", resp.Header.Get("App-Name"))
	assert.Equal(t, "test", resp.Header.Get("App-Version"))
}

func TestServer_Ping(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))
}

func TestRenderError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	renderError(rec, req, fmt.Errorf("boom"), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "boom", body["error"])
}

func TestRenderError_NilError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	renderError(rec, req, nil, http.StatusInternalServerError)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown error", body["error"])
}
