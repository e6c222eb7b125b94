package projects

import (
	"context"
	"time"
)

// Repo stores projects per owner. Lookups return (nil, nil) when nothing matches.
type Repo interface {
	// Insert stores a new info record and returns its project id. It fails with
	// errors.ErrInvalidRequest when the id, name or owner is missing.
	Insert(ctx context.Context, info *Info) (string, error)
	Get(ctx context.Context, userID, projectID string) (*Info, error)
	ListMetadata(ctx context.Context, userID string) ([]Metadata, error)
	// Rename sets the name and last modified time and returns the updated record.
	Rename(ctx context.Context, userID, projectID, newName string, at time.Time) (*Info, error)
	// Delete removes the info record and page document. Deleting a missing project is not an error.
	Delete(ctx context.Context, userID, projectID string) error
	GetPage(ctx context.Context, userID, projectID string) (Page, error)
	SavePage(ctx context.Context, userID, projectID string, page Page) error
}
