package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textcleanup/internal/config"
	"textcleanup/internal/dictionary"
	"textcleanup/internal/logging"
)

type memoryStore struct {
	mu    sync.Mutex
	words map[string]struct{}
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{words: map[string]struct{}{}}
}

func (m *memoryStore) Add(_ context.Context, word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.words[strings.TrimSpace(word)] = struct{}{}
	return nil
}

func (m *memoryStore) Remove(_ context.Context, word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.words, strings.TrimSpace(word))
	return nil
}

func (m *memoryStore) All(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, 0, len(m.words))
	for w := range m.words {
		out = append(out, w)
	}
	return out, nil
}

func testServer(t *testing.T, store wordStore) *server {
	t.Helper()
	f, err := os.Open("../../testdata/words.txt")
	require.NoError(t, err)
	defer f.Close()
	base, err := dictionary.Load(f)
	require.NoError(t, err)

	cfg := config.Config{DictionaryPath: "words.txt", MaxErrors: 2, Workers: 2,
		AllowSpace: true, Substitution: true, Deletion: true, Insertion: true}
	return newServer(context.Background(), base, store, &cfg, logging.NoopLogger())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cleanupText(t *testing.T, h http.Handler, text string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"text": text})
	require.NoError(t, err)
	rec := do(t, h, http.MethodPost, "/api/v1/cleanup", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Original  string `json:"original"`
		Corrected string `json:"corrected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, text, resp.Original)
	return resp.Corrected
}

func TestHealthz(t *testing.T) {
	h := testServer(t, newMemoryStore()).routes(newLimiter(0))
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCleanupEndpoint(t *testing.T) {
	h := testServer(t, newMemoryStore()).routes(newLimiter(0))

	rec := do(t, h, http.MethodPost, "/api/v1/cleanup", `{"text":"This tixt has one error."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"original": "This tixt has one error.",
		"corrected": "This text has one error.",
		"changes": [
			{"op": "delete", "offset": 6, "text": "i"},
			{"op": "insert", "offset": 7, "text": "e"}
		]
	}`, rec.Body.String())
}

func TestCleanupSkipsLongTokens(t *testing.T) {
	h := testServer(t, newMemoryStore()).routes(newLimiter(0))

	garbage := strings.Repeat("qz", defaultMaxTokenLength)
	assert.Equal(t, "This text "+garbage, cleanupText(t, h, "This tixt "+garbage))
}

func TestCleanupEndpointRejects(t *testing.T) {
	h := testServer(t, newMemoryStore()).routes(newLimiter(0))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/cleanup", `{"text":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/cleanup", `not json`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/v1/cleanup", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/v1/correct", `{"text":"x"}`).Code)
}

func TestCustomWords(t *testing.T) {
	store := newMemoryStore()
	h := testServer(t, store).routes(newLimiter(0))

	assert.Equal(t, "This text", cleanupText(t, h, "This tixt"))

	rec := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"tixt"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "This tixt", cleanupText(t, h, "This tixt"))

	rec = do(t, h, http.MethodDelete, "/api/v1/custom-word/tixt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "This text", cleanupText(t, h, "This tixt"))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":""}`).Code)
}

func TestCustomWordsLoadedAtStartup(t *testing.T) {
	store := newMemoryStore()
	require.NoError(t, store.Add(context.Background(), "tixt"))

	h := testServer(t, store).routes(newLimiter(0))
	assert.Equal(t, "This tixt", cleanupText(t, h, "This tixt"))
}

func TestCustomWordsStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")

	h := testServer(t, store).routes(newLimiter(0))
	assert.Equal(t, "This text", cleanupText(t, h, "This tixt"))

	rec := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"tixt"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = do(t, h, http.MethodDelete, "/api/v1/custom-word/tixt", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := testServer(t, newMemoryStore()).routes(newLimiter(1))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}
