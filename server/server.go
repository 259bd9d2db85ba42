// Package server is the thin HTTP shell over the extractor: a JSON endpoint,
// a JSONL batch endpoint and health, behind request-ID, logging and
// rate-limit middleware.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/y00281951/fst-time-nlu/extractor"
	"github.com/y00281951/fst-time-nlu/internal/profile"
)

const requestIDHeader = "X-Request-Id"

// Server hosts the extraction API.
type Server struct {
	e         *echo.Echo
	profile   *profile.Profile
	extractor *extractor.Extractor
	limiter   *rate.Limiter
}

// New builds the server around an already-constructed extractor.
func New(prof *profile.Profile, ext *extractor.Extractor) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:         e,
		profile:   prof,
		extractor: ext,
		// generous default: extraction is ~4ms per utterance
		limiter: rate.NewLimiter(rate.Limit(200), 400),
	}

	e.Use(middleware.Recover())
	e.Use(s.requestID)
	e.Use(s.logRequest)
	e.Use(s.rateLimit)

	e.GET("/healthz", s.health)
	e.POST("/api/v1/extract", s.extract)
	e.POST("/api/v1/extract/batch", s.extractBatch)
	return s
}

type extractRequest struct {
	Text     string `json:"text"`
	BaseTime string `json:"base_time"`
}

type extractResponse struct {
	Results  []any  `json:"results"`
	QueryTag string `json:"query_tag"`
}

func (s *Server) extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	results, qt, err := s.extractor.ExtractISO(req.Text, req.BaseTime)
	if err != nil {
		if errors.Is(err, extractor.ErrInvalidBaseTime) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "extraction failed")
	}
	return c.JSON(http.StatusOK, extractResponse{Results: results, QueryTag: qt})
}

type batchLine struct {
	Text     string `json:"text"`
	BaseTime string `json:"base_time,omitempty"`
	Results  []any  `json:"results"`
	QueryTag string `json:"query_tag"`
}

// extractBatch mirrors the CLI JSONL contract: one {text, base_time} object
// per request-body line, one line with {results, query_tag} appended per
// input line. Malformed or failing lines are logged and skipped, matching
// the CLI's per-line policy.
func (s *Server) extractBatch(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/x-ndjson")
	c.Response().WriteHeader(http.StatusOK)

	enc := json.NewEncoder(c.Response())
	scanner := bufio.NewScanner(c.Request().Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var in batchLine
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			slog.Warn("skipping malformed batch line", "line", lineNo, "error", err)
			continue
		}
		results, qt, err := s.extractor.ExtractISO(in.Text, in.BaseTime)
		if err != nil {
			slog.Warn("skipping batch line", "line", lineNo, "error", err)
			continue
		}
		out := batchLine{Text: in.Text, BaseTime: in.BaseTime, Results: results, QueryTag: qt}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("batch body read failed", "error", err)
	}
	return nil
}

func (s *Server) health(c echo.Context) error {
	stats := s.extractor.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"language":    string(s.extractor.Language()),
		"version":     s.profile.Version,
		"extractions": stats.Extractions,
		"matched":     stats.Matched,
	})
}

func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(requestIDHeader, id)
		c.Set("request_id", id)
		return next(c)
	}
}

func (s *Server) logRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		slog.Info("http request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"duration", time.Since(start),
			"request_id", c.Get("request_id"),
		)
		return err
	}
}

func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiter.Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// Start blocks serving HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.e.Start(s.profile.ListenAddr())
	}()
	slog.Info("server started", "addr", s.profile.ListenAddr(), "language", s.extractor.Language())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	}
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.e }
