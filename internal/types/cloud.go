package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
)

// CloudFields are the five boxes of an evaporating cloud as the user typed them.
type CloudFields struct {
	A      string `json:"a" validate:"max=200"`
	B      string `json:"b" validate:"max=200"`
	C      string `json:"c" validate:"max=200"`
	D      string `json:"d" validate:"max=200"`
	Dprime string `json:"d_prime" validate:"max=200"`
}

// PreviewRequest asks for the derived title and read-aloud script of a draft.
type PreviewRequest struct {
	CloudFields
	Mode    string `json:"mode,omitempty" validate:"omitempty,oneof=adult kids"`
	Reading string `json:"reading,omitempty" validate:"omitempty,oneof=katakana hiragana"`
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	return validate.Struct(r)
}

// PreviewResponse is what the editor shows while a cloud is being written.
type PreviewResponse struct {
	Title       string           `json:"title"`
	TitleAuto   bool             `json:"title_auto"`
	BNormalized string           `json:"b_normalized"`
	CNormalized string           `json:"c_normalized"`
	Mode        string           `json:"mode"`
	Lines       []readaloud.Line `json:"lines"`
}

// CreateCloudRequest publishes a cloud. An empty title is generated from the fields.
type CreateCloudRequest struct {
	Title               string   `json:"title,omitempty" validate:"max=60"`
	A                   string   `json:"a" validate:"required,notblank,max=200"`
	B                   string   `json:"b" validate:"required,notblank,max=200"`
	C                   string   `json:"c" validate:"required,notblank,max=200"`
	D                   string   `json:"d" validate:"required,notblank,max=200"`
	Dprime              string   `json:"d_prime" validate:"required,notblank,max=200"`
	Context             *string  `json:"context,omitempty" validate:"omitempty,max=2000"`
	ReasonDBlocksC      *string  `json:"reason_d_blocks_c,omitempty" validate:"omitempty,max=1000"`
	ReasonDprimeBlocksB *string  `json:"reason_dprime_blocks_b,omitempty" validate:"omitempty,max=1000"`
	ConflictType        string   `json:"conflict_type" validate:"required,oneof=internal external"`
	Tags                []string `json:"tags,omitempty" validate:"max=8,unique,dive,oneof=work school society family parenting private kids materials"`
	Visibility          string   `json:"visibility,omitempty" validate:"omitempty,oneof=public unlisted"`
}

// Validate validates the CreateCloudRequest using the validator.
func (r *CreateCloudRequest) Validate() error {
	return validate.Struct(r)
}

// ReactionRequest sets a helpful mark or bookmark to an explicit state.
type ReactionRequest struct {
	On *bool `json:"on" validate:"required"`
}

// Validate validates the ReactionRequest using the validator.
func (r *ReactionRequest) Validate() error {
	return validate.Struct(r)
}

// ReactionResponse reports the caller's state and the updated counter.
type ReactionResponse struct {
	On    bool `json:"on"`
	Count int  `json:"count"`
}

// SolutionRequest creates or replaces the caller's solution for a cloud.
type SolutionRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// Validate validates the SolutionRequest using the validator.
func (r *SolutionRequest) Validate() error {
	return validate.Struct(r)
}

// Solution is a solution as shown in the panel, with its Markdown body rendered.
type Solution struct {
	ID         uuid.UUID `json:"id"`
	CloudID    uuid.UUID `json:"cloud_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	BodyHTML   string    `json:"body_html"`
	Excerpt    string    `json:"excerpt"`
	LikesCount int       `json:"likes_count"`
	LikedByMe  bool      `json:"liked_by_me"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LikeResponse is the result of toggling a like.
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
	Featured   bool `json:"featured"`
}
