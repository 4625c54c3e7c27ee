package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/assist"
)

// handleAssist runs the structural linter over up to four read-aloud lines.
// The body is {A, B, C, D, Dprime, lines:[{key, text}]}.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	if s.linter == nil {
		s.writeError(w, r, &ErrAssistUnavailable{})
		return
	}

	var req assist.Request
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.assistTimeout)
	defer cancel()

	resp, err := s.linter.Lint(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("assist done",
		zap.Int("comments", resp.Comments.Total()),
		zap.Int("local", resp.Local.Total()),
		zap.Bool("cached", resp.Cached),
	)
	s.jsonResponse(w, http.StatusOK, resp)
}
