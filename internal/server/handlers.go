package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindtower/pkg/archive"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// createRequest is the POST /v1/maps body. Pipeline options plus the format
// to archive when several are rendered.
type createRequest struct {
	pipeline.Options
	ArchiveFormat string `json:"archive_format,omitempty"`
}

// createResponse is the POST /v1/maps response.
type createResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Kind      string         `json:"kind"`
	NodeCount int            `json:"node_count"`
	TreeHash  string         `json:"tree_hash"`
	SceneHash string         `json:"scene_hash"`
	Format    string         `json:"format"`
	Cache     map[string]any `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, pipeline.MaxOutlineBytes+4096)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := req.ArchiveFormat
	if format == "" {
		format = pipeline.DefaultFormat
	}
	artifact, ok := result.Artifacts[format]
	if !ok {
		// Fall back to any rendered format so the archive entry is never empty.
		for f, data := range result.Artifacts {
			format, artifact = f, data
			break
		}
	}

	rec := &archive.Record{
		ID:        archive.NewID(),
		Title:     result.Tree.Content,
		Kind:      result.Scene.Kind,
		NodeCount: result.Stats.NodeCount,
		TreeHash:  result.TreeHash,
		SceneHash: result.SceneHash,
		Format:    format,
		Artifact:  artifact,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		ID:        rec.ID,
		Title:     rec.Title,
		Kind:      rec.Kind,
		NodeCount: rec.NodeCount,
		TreeHash:  rec.TreeHash,
		SceneHash: rec.SceneHash,
		Format:    rec.Format,
		Cache: map[string]any{
			"parse_hit":  result.CacheInfo.ParseHit,
			"layout_hit": result.CacheInfo.LayoutHit,
			"render_hit": result.CacheInfo.RenderHit,
		},
	})
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"maps": records})
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetMapFile(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(rec.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Artifact)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "svg", "dot-svg":
		return "image/svg+xml"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// errorResponse is the JSON error body shared by all endpoints.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeMapNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
