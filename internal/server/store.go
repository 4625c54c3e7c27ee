package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/reading"
)

// DBClient is the user storage behind registration and login.
type DBClient interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUserWithPassword(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUserName(ctx context.Context, id uuid.UUID, name string) (*db.User, error)
}

// CloudStore is the storage behind the cloud, reaction and solution routes.
type CloudStore interface {
	CreateCloud(ctx context.Context, in db.CloudInput) (*db.Cloud, error)
	GetCloud(ctx context.Context, id uuid.UUID) (*db.Cloud, error)
	ListClouds(ctx context.Context, f db.CloudFilter) ([]db.Cloud, error)
	SetHelpful(ctx context.Context, cloudID, userID uuid.UUID, on bool) (int, error)
	SetBookmark(ctx context.Context, cloudID, userID uuid.UUID, on bool) (int, error)
	GetViewerState(ctx context.Context, cloudID, userID uuid.UUID) (db.ViewerState, error)
	ListBookmarkedClouds(ctx context.Context, userID uuid.UUID, limit int) ([]db.Cloud, error)
	UpsertSolution(ctx context.Context, cloudID, userID uuid.UUID, body string) (*db.Solution, bool, error)
	ListSolutions(ctx context.Context, cloudID, viewerID uuid.UUID) ([]db.Solution, error)
	ToggleLike(ctx context.Context, solutionID, userID uuid.UUID) (bool, int, error)
}

// Store is everything the server persists. *db.DB implements it.
type Store interface {
	DBClient
	CloudStore
	Ping(ctx context.Context) error
}

// Linter reviews read-aloud lines. *assist.Linter implements it.
type Linter interface {
	Lint(ctx context.Context, req assist.Request) (*assist.Response, error)
}

// Annotator adds kana readings to read-aloud lines. *reading.Reader implements it.
type Annotator interface {
	Annotate(vm *readaloud.VM, script reading.Script)
}

var (
	_ Store     = (*db.DB)(nil)
	_ Linter    = (*assist.Linter)(nil)
	_ Annotator = (*reading.Reader)(nil)
)
