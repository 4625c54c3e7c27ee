package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/server/middleware"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

const maxListLimit = 100

// handleListClouds lists public clouds.
// ?conflict_type=internal|external&tags=work,family&mode=new|hot&q=...&limit=30
func (s *Server) handleListClouds(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCloudFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	clouds, err := s.store.ListClouds(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"clouds": clouds,
		"count":  len(clouds),
	})
}

func parseCloudFilter(r *http.Request) (db.CloudFilter, error) {
	q := r.URL.Query()
	f := db.CloudFilter{
		Mode:  db.ListNew,
		Query: strings.TrimSpace(q.Get("q")),
		Limit: db.DefaultListLimit,
	}

	if v := q.Get("conflict_type"); v != "" {
		f.ConflictType = db.ConflictType(v)
		if !f.ConflictType.Valid() {
			return f, &ErrValidation{Field: "conflict_type", Message: "must be internal or external"}
		}
	}

	for _, tag := range strings.Split(q.Get("tags"), ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !db.IsTag(tag) {
			return f, &ErrValidation{Field: "tags", Message: fmt.Sprintf("unknown tag %q", tag)}
		}
		f.Tags = append(f.Tags, tag)
	}

	switch db.ListMode(q.Get("mode")) {
	case "", db.ListNew:
	case db.ListHot:
		f.Mode = db.ListHot
	default:
		return f, &ErrValidation{Field: "mode", Message: "must be new or hot"}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return f, &ErrValidation{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxListLimit)}
		}
		f.Limit = n
	}

	return f, nil
}

// handleCreateCloud publishes a cloud owned by the caller. Title and the
// normalized desires are always derived here.
func (s *Server) handleCreateCloud(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.CreateCloudRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	in := buildCloudInput(userID, &req)
	cloud, err := s.store.CreateCloud(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, cloud)
}

func buildCloudInput(owner uuid.UUID, req *types.CreateCloudRequest) db.CloudInput {
	fields := types.CloudFields{
		A:      strings.TrimSpace(req.A),
		B:      strings.TrimSpace(req.B),
		C:      strings.TrimSpace(req.C),
		D:      strings.TrimSpace(req.D),
		Dprime: strings.TrimSpace(req.Dprime),
	}
	d := deriveFields(fields)

	in := db.CloudInput{
		OwnerID:             owner,
		Title:               d.title.Title,
		TitleAuto:           d.title.TitleAuto,
		A:                   fields.A,
		BRaw:                fields.B,
		BNormalized:         d.bNormalized,
		CRaw:                fields.C,
		CNormalized:         d.cNormalized,
		D:                   fields.D,
		Dprime:              fields.Dprime,
		Context:             trimmedOrNil(req.Context),
		ReasonDBlocksC:      trimmedOrNil(req.ReasonDBlocksC),
		ReasonDprimeBlocksB: trimmedOrNil(req.ReasonDprimeBlocksB),
		ConflictType:        db.ConflictType(req.ConflictType),
		Tags:                req.Tags,
		Visibility:          db.Visibility(req.Visibility),
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		in.Title = t
		in.TitleAuto = false
	}
	return in
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// handleGetCloud returns one active cloud. Unlisted clouds are reachable by id.
func (s *Server) handleGetCloud(w http.ResponseWriter, r *http.Request) {
	cloud, ok := s.loadVisibleCloud(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, cloud)
}

// loadVisibleCloud resolves the {id} path value, writing the error response
// itself when the cloud cannot be shown.
func (s *Server) loadVisibleCloud(w http.ResponseWriter, r *http.Request) (*db.Cloud, bool) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return nil, false
	}
	cloud, err := s.store.GetCloud(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if cloud == nil || cloud.Status != db.StatusActive {
		s.writeError(w, r, &ErrNotFound{Resource: "cloud", ID: id.String()})
		return nil, false
	}
	return cloud, true
}

func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// handleSetRating marks the cloud helpful or not for the caller.
func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	s.setReaction(w, r, s.store.SetHelpful)
}

// handleSetBookmark bookmarks or unbookmarks the cloud for the caller.
func (s *Server) handleSetBookmark(w http.ResponseWriter, r *http.Request) {
	s.setReaction(w, r, s.store.SetBookmark)
}

type reactionSetter func(ctx context.Context, cloudID, userID uuid.UUID, on bool) (int, error)

func (s *Server) setReaction(w http.ResponseWriter, r *http.Request, set reactionSetter) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cloudID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req types.ReactionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	count, err := set(r.Context(), cloudID, userID, *req.On)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ReactionResponse{On: *req.On, Count: count})
}

// handleViewerState reports the caller's rating, bookmark and solution for a cloud.
func (s *Server) handleViewerState(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cloud, ok := s.loadVisibleCloud(w, r)
	if !ok {
		return
	}

	state, err := s.store.GetViewerState(r.Context(), cloud.ID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleListBookmarks lists the caller's bookmarked clouds.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	clouds, err := s.store.ListBookmarkedClouds(r.Context(), userID, db.DefaultListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"clouds": clouds,
		"count":  len(clouds),
	})
}
