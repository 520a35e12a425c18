package main

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"textcleanup/internal/cleanup"
	"textcleanup/internal/config"
	sc "textcleanup/internal/corrector"
	"textcleanup/internal/dictionary"
	"textcleanup/internal/logging"
	"textcleanup/internal/report"
	"textcleanup/pkg/options"
)

const (
	maxBodyBytes = 1 << 20

	// defaultMaxTokenLength caps tokens when MAX_TOKEN_LENGTH is unset.
	defaultMaxTokenLength = 64
)

// wordStore is the persistent set of custom words.
type wordStore interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	All(ctx context.Context) ([]string, error)
}

type server struct {
	base        *dictionary.Dictionary
	words       wordStore
	opts        []options.Options
	workers     int
	maxTokenLen int
	logger      *logging.Logger

	mu       sync.Mutex // serializes rebuilds
	pipeline atomic.Pointer[cleanup.Pipeline]
}

// newServer starts from base alone when the custom words cannot be read.
func newServer(ctx context.Context, base *dictionary.Dictionary, words wordStore, cfg *config.Config, logger *logging.Logger) *server {
	s := &server{
		base:        base,
		words:       words,
		opts:        cfg.CorrectorOptions(),
		workers:     cfg.Workers,
		maxTokenLen: cfg.MaxTokenLength,
		logger:      logger,
	}
	if s.maxTokenLen == 0 {
		s.maxTokenLen = defaultMaxTokenLength
	}
	s.install(base)
	if err := s.rebuild(ctx); err != nil {
		logger.WarnContext(ctx, "custom words unavailable", "error", err)
	}
	return s
}

func (s *server) install(dict *dictionary.Dictionary) {
	corrector := sc.NewSpellCorrector(dict, s.opts...)
	s.pipeline.Store(cleanup.New(corrector,
		cleanup.WithWorkers(s.workers),
		cleanup.WithMaxTokenLength(s.maxTokenLen),
		cleanup.WithLogger(s.logger),
	))
}

// rebuild swaps in a pipeline over base plus the current custom words.
func (s *server) rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	custom, err := s.words.All(ctx)
	if err != nil {
		return err
	}
	s.install(s.base.With(custom...))
	s.logger.DebugContext(ctx, "dictionary rebuilt", "custom_words", len(custom))
	return nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, math.Ceil(perSecond))))
}

func (s *server) routes(limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/cleanup", s.handleCleanup)
	mux.HandleFunc("POST /api/v1/custom-word", s.handleAddWord)
	mux.HandleFunc("DELETE /api/v1/custom-word/{word}", s.handleRemoveWord)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (s *server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	corrected, err := s.pipeline.Load().Clean(r.Context(), req.Text)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"original":  req.Text,
		"corrected": corrected,
		"changes":   report.Changes(req.Text, corrected),
	})
}

func (s *server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Word) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	if err := s.words.Add(r.Context(), req.Word); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if strings.TrimSpace(word) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word is required"})
		return
	}
	if err := s.words.Remove(r.Context(), word); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
