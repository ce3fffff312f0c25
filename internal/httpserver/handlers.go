package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/specctl/internal/adapters/inbound/composefile"
	"github.com/skillcoder/specctl/internal/adapters/outbound/k8syaml"
	"github.com/skillcoder/specctl/internal/logic/engine"
	"github.com/skillcoder/specctl/internal/logic/manifest"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
		next.ServeHTTP(w, r)
	})
}

// handleTranslate decodes a manifest stream and answers with the model.
// An input without usable objects answers 422 with the diagnostics model.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	objs, err := manifest.Parse(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)

		return
	}

	m, err := s.translator.TranslateObjects(ctx, objs)

	switch {
	case err == nil:
		s.writeJSON(w, r, http.StatusOK, m)
	case errors.Is(err, engine.ErrNothingToProcess) && m != nil:
		s.writeJSON(w, r, http.StatusUnprocessableEntity, m)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

// handleCompose converts a compose document to a multi-document YAML stream.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	project, err := composefile.Decode(bytes.NewReader(body))
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, composefile.ErrNoServices) {
			code = http.StatusUnprocessableEntity
		}

		s.writeError(w, r, code, err)

		return
	}

	var buf bytes.Buffer
	if err := k8syaml.Encode(&buf, s.composer.Convert(ctx, project)); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", contentTypeYAML)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WarnContext(ctx, "failed to write response", "reason", err)
	}
}

// readBody answers 413 over the body limit and 400 on other read errors.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		return body, true
	}

	code := http.StatusBadRequest

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		code = http.StatusRequestEntityTooLarge
	}

	s.writeError(w, r, code, err)

	return nil, false
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	s.logger.WarnContext(r.Context(), "request failed",
		"traceID", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"status", code,
		"reason", err,
	)

	s.writeJSON(w, r, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to encode response", "reason", err)
	}
}
