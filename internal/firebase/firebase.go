package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/config"
	"google.golang.org/api/option"
)

// NewFirestoreClient connects to the configured project. Without a credentials
// file the client falls back to application default credentials, or to the
// emulator when FIRESTORE_EMULATOR_HOST is set.
func NewFirestoreClient(ctx context.Context, cfg config.StoreConfig) (*firestore.Client, error) {
	projectID := cfg.GetFirebaseProjectID()
	if projectID == "" {
		return nil, fmt.Errorf("firestore: project id is not set")
	}

	var opts []option.ClientOption
	if fn := cfg.GetFirebaseCredentialsFile(); fn != "" {
		opts = append(opts, option.WithCredentialsFile(fn))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: new client for %s: %w", projectID, err)
	}
	log.Info().Str("project", projectID).Msg("firestore client ready")
	return client, nil
}
