package db

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConflictType says whether a cloud is a dilemma inside one person or between parties.
type ConflictType string

const (
	ConflictInternal ConflictType = "internal"
	ConflictExternal ConflictType = "external"
)

// Valid reports whether c is a known conflict type.
func (c ConflictType) Valid() bool {
	return c == ConflictInternal || c == ConflictExternal
}

// Visibility controls whether a cloud appears in listings.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityUnlisted
}

// StatusActive is the only cloud status written today.
const StatusActive = "active"

// Tags are the topics a cloud can be filed under.
var Tags = []string{"work", "school", "society", "family", "parenting", "private", "kids", "materials"}

// IsTag reports whether t is one of Tags.
func IsTag(t string) bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// Cloud is a stored conflict cloud.
type Cloud struct {
	ID                  uuid.UUID    `json:"id"`
	OwnerID             uuid.UUID    `json:"owner_id"`
	Title               string       `json:"title"`
	TitleAuto           bool         `json:"title_auto"`
	A                   string       `json:"a"`
	BRaw                string       `json:"b_raw"`
	BNormalized         string       `json:"b_normalized"`
	CRaw                string       `json:"c_raw"`
	CNormalized         string       `json:"c_normalized"`
	D                   string       `json:"d"`
	Dprime              string       `json:"d_prime"`
	Context             *string      `json:"context,omitempty"`
	ReasonDBlocksC      *string      `json:"reason_d_blocks_c,omitempty"`
	ReasonDprimeBlocksB *string      `json:"reason_dprime_blocks_b,omitempty"`
	ConflictType        ConflictType `json:"conflict_type"`
	Tags                []string     `json:"tags"`
	Visibility          Visibility   `json:"visibility"`
	Status              string       `json:"status"`
	HelpfulCount        int          `json:"helpful_count"`
	BookmarkCount       int          `json:"bookmark_count"`
	SolutionsCount      int          `json:"solutions_count"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// CloudInput holds the values written by CreateCloud. Title and the normalized
// desires are derived by the caller.
type CloudInput struct {
	OwnerID             uuid.UUID
	Title               string
	TitleAuto           bool
	A                   string
	BRaw                string
	BNormalized         string
	CRaw                string
	CNormalized         string
	D                   string
	Dprime              string
	Context             *string
	ReasonDBlocksC      *string
	ReasonDprimeBlocksB *string
	ConflictType        ConflictType
	Tags                []string
	Visibility          Visibility
}

// ListMode orders cloud listings.
type ListMode string

const (
	ListNew ListMode = "new" // newest first
	ListHot ListMode = "hot" // most helpful first
)

// DefaultListLimit is the page size when a filter sets none.
const DefaultListLimit = 30

// CloudFilter narrows ListClouds. Zero values mean no restriction.
type CloudFilter struct {
	ConflictType ConflictType
	Tags         []string // any overlap matches
	Mode         ListMode
	Query        string // case-insensitive substring of title or A
	Limit        int
}

// ViewerState is what one user has done to a cloud.
type ViewerState struct {
	Helpful     bool `json:"helpful"`
	Bookmarked  bool `json:"bookmarked"`
	HasSolution bool `json:"has_solution"`
}

// FeaturedLikes is the like count from which a solution is featured.
const FeaturedLikes = 3

// Solution is one user's proposal for resolving a cloud.
type Solution struct {
	ID         uuid.UUID `json:"id"`
	CloudID    uuid.UUID `json:"cloud_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	LikesCount int       `json:"likes_count"`
	LikedByMe  bool      `json:"liked_by_me"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToggleDelta is the counter change for a flag going from before to after.
func ToggleDelta(before, after bool) int {
	switch {
	case before == after:
		return 0
	case after:
		return 1
	default:
		return -1
	}
}
