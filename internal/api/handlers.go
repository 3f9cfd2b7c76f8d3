package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tjelz/sitecontext"
	"github.com/tjelz/sitecontext/internal/storage"
	"github.com/tjelz/sitecontext/pkg/urlutil"
	"github.com/tjelz/sitecontext/scrape"
)

type buildContextRequest struct {
	URL string `json:"url"`
}

type buildContextResponse struct {
	Origin   string `json:"origin"`
	Markdown string `json:"markdown"`
	Cached   bool   `json:"cached"`
}

// handleBuildContext builds (or serves from cache) the Markdown context for
// a site. Cache and persistence failures degrade to a fresh build; only the
// library's total-failure case maps to an error response.
func (s *Server) handleBuildContext(w http.ResponseWriter, r *http.Request) {
	var req buildContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	origin, err := urlutil.ParseOrigin(req.URL)
	if err != nil {
		s.metrics.IncBuilds("bad_request")
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+req.URL)
		return
	}

	if cached, ok, err := s.redisStore.GetCachedContext(r.Context(), origin.String()); err != nil {
		s.logger.Warn("cache lookup failed", zap.String("origin", origin.String()), zap.Error(err))
	} else if ok {
		s.metrics.IncCacheHits()
		s.respondWithJSON(w, http.StatusOK, buildContextResponse{Origin: origin.String(), Markdown: cached, Cached: true})
		return
	}

	start := time.Now()
	agg, err := s.service.Aggregate(r.Context(), origin.String())
	s.metrics.ObserveBuildDuration(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, sitecontext.ErrNoContent) {
			s.metrics.IncBuilds("no_content")
			s.respondWithError(w, http.StatusUnprocessableEntity, "Could not fetch any page of the site")
			return
		}
		s.metrics.IncBuilds("bad_request")
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.IncBuilds("success")

	markdown := scrape.RenderMarkdown(agg)
	if err := s.redisStore.CacheContext(r.Context(), origin.String(), markdown, s.config.CacheTTL()); err != nil {
		s.logger.Warn("context cache write failed", zap.String("origin", origin.String()), zap.Error(err))
	}
	s.persistSnapshot(r.Context(), origin.String(), markdown, scrape.StructuredFromAggregate(agg))

	s.respondWithJSON(w, http.StatusOK, buildContextResponse{Origin: origin.String(), Markdown: markdown})
}

func (s *Server) handleStructuredData(w http.ResponseWriter, r *http.Request) {
	urlParam := r.URL.Query().Get("url")
	if urlParam == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL query parameter is required")
		return
	}

	data, err := s.service.GetStructuredWebsiteData(r.Context(), urlParam)
	if err != nil {
		if errors.Is(err, sitecontext.ErrNoContent) {
			s.metrics.IncBuilds("no_content")
			s.respondWithError(w, http.StatusUnprocessableEntity, "Could not fetch any page of the site")
			return
		}
		s.metrics.IncBuilds("bad_request")
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.IncBuilds("success")

	s.respondWithJSON(w, http.StatusOK, data)
}

// handleGetSnapshot serves the last persisted build for an origin without
// triggering a crawl.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.pgStore == nil {
		s.respondWithError(w, http.StatusNotImplemented, "Snapshot persistence is not configured")
		return
	}

	urlParam := r.URL.Query().Get("url")
	if urlParam == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL query parameter is required")
		return
	}
	origin, err := urlutil.ParseOrigin(urlParam)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+urlParam)
		return
	}

	snap, err := s.pgStore.GetLatestSnapshot(r.Context(), origin.String())
	if errors.Is(err, storage.ErrNotFound) {
		s.respondWithError(w, http.StatusNotFound, "No snapshot for "+origin.String())
		return
	}
	if err != nil {
		s.logger.Error("snapshot lookup failed", zap.String("origin", origin.String()), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Snapshot lookup failed")
		return
	}
	s.respondWithJSON(w, http.StatusOK, snap)
}

// persistSnapshot stores the finished build; failures are logged, never
// surfaced to the requester.
func (s *Server) persistSnapshot(ctx context.Context, origin, markdown string, structured *scrape.StructuredWebsiteData) {
	if s.pgStore == nil {
		return
	}
	snap := &storage.Snapshot{
		Origin:     origin,
		Markdown:   markdown,
		Structured: structured,
		BuiltAt:    time.Now(),
	}
	if err := s.pgStore.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Warn("snapshot persistence failed", zap.String("origin", origin), zap.Error(err))
	}
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if s.pgStore != nil {
		if err := s.pgStore.Ping(ctx); err != nil {
			healthStatus["postgres"] = "unhealthy"
			s.logger.Error("health check failed for postgres", zap.Error(err))
		} else {
			healthStatus["postgres"] = "healthy"
		}
	}

	if err := s.redisStore.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	for _, status := range healthStatus {
		if status != "healthy" {
			s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
			return
		}
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
