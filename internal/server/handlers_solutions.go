package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/markdown"
	"github.com/toc-cloud/toc-cloud/internal/server/middleware"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

const excerptRunes = 80

// handleListSolutions lists a cloud's solutions, most liked first. Signed-in
// callers see their own likes marked and float to the top of ties.
func (s *Server) handleListSolutions(w http.ResponseWriter, r *http.Request) {
	cloud, ok := s.loadVisibleCloud(w, r)
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(r) // uuid.Nil when anonymous

	solutions, err := s.store.ListSolutions(r.Context(), cloud.ID, viewerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]types.Solution, 0, len(solutions))
	for i := range solutions {
		out = append(out, s.renderSolution(&solutions[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"solutions": out,
		"count":     len(out),
	})
}

// handleUpsertSolution creates or replaces the caller's solution.
func (s *Server) handleUpsertSolution(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cloudID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req types.SolutionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "required"})
		return
	}

	sol, created, err := s.store.UpsertSolution(r.Context(), cloudID, userID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, s.renderSolution(sol))
}

// handleToggleLike flips the caller's like on a solution.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	solutionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	liked, likes, err := s.store.ToggleLike(r.Context(), solutionID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LikeResponse{
		Liked:      liked,
		LikesCount: likes,
		Featured:   likes >= db.FeaturedLikes,
	})
}

func (s *Server) renderSolution(sol *db.Solution) types.Solution {
	html, err := markdown.ToHTML(sol.Body)
	if err != nil {
		s.logger.Warn("failed to render solution", zap.Stringer("solution_id", sol.ID), zap.Error(err))
	}
	return types.Solution{
		ID:         sol.ID,
		CloudID:    sol.CloudID,
		UserID:     sol.UserID,
		AuthorName: sol.AuthorName,
		Body:       sol.Body,
		BodyHTML:   html,
		Excerpt:    markdown.Excerpt(sol.Body, excerptRunes),
		LikesCount: sol.LikesCount,
		LikedByMe:  sol.LikedByMe,
		Featured:   sol.LikesCount >= db.FeaturedLikes,
		CreatedAt:  sol.CreatedAt,
		UpdatedAt:  sol.UpdatedAt,
	}
}
