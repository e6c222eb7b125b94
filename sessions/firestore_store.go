package sessions

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/youyuhsuan/designare/internal/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TokensCollection holds one document per session, keyed by client id.
const TokensCollection = "tokens"

var _ Backend = (*FirestoreBackend)(nil)

// FirestoreBackend stores records in the tokens collection.
type FirestoreBackend struct {
	client *firestore.Client
}

func NewFirestoreBackend(client *firestore.Client) *FirestoreBackend {
	return &FirestoreBackend{client: client}
}

// tokenDoc is the document layout. Field names are shared with existing data.
type tokenDoc struct {
	AccessToken  string    `firestore:"access_token"`
	RefreshToken string    `firestore:"refresh_token"`
	UserID       string    `firestore:"user_id"`
	ClientID     string    `firestore:"client_id"`
	Scope        []string  `firestore:"scope"`
	ExpiresAt    time.Time `firestore:"expires_at"`
}

func toTokenDoc(r *StoredSessionRecord) tokenDoc {
	return tokenDoc{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		UserID:       r.UserID,
		ClientID:     r.ClientID,
		Scope:        r.Scope,
		ExpiresAt:    time.UnixMilli(r.ExpiresAt).UTC(),
	}
}

func (d tokenDoc) record() *StoredSessionRecord {
	return &StoredSessionRecord{
		AccessToken:  d.AccessToken,
		RefreshToken: d.RefreshToken,
		UserID:       d.UserID,
		ClientID:     d.ClientID,
		Scope:        d.Scope,
		ExpiresAt:    d.ExpiresAt.UnixMilli(),
	}
}

func (f *FirestoreBackend) doc(clientID string) *firestore.DocumentRef {
	return f.client.Collection(TokensCollection).Doc(clientID)
}

func (f *FirestoreBackend) Create(ctx context.Context, record *StoredSessionRecord) error {
	_, err := f.doc(record.ClientID).Create(ctx, toTokenDoc(record))
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%w: client %s", errors.ErrSessionExists, record.ClientID)
	}
	if err != nil {
		return errors.Storagef(err, "firestore create %s", record.ClientID)
	}
	return nil
}

func (f *FirestoreBackend) Get(ctx context.Context, clientID string) (*StoredSessionRecord, error) {
	snap, err := f.doc(clientID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "firestore get %s", clientID)
	}
	var doc tokenDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Storagef(err, "firestore decode %s", clientID)
	}
	return doc.record(), nil
}

func (f *FirestoreBackend) SetAccess(ctx context.Context, clientID, accessToken string, expiresAtMs int64) (bool, error) {
	_, err := f.doc(clientID).Update(ctx, []firestore.Update{
		{Path: "access_token", Value: accessToken},
		{Path: "expires_at", Value: time.UnixMilli(expiresAtMs).UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Storagef(err, "firestore update %s", clientID)
	}
	return true, nil
}

func (f *FirestoreBackend) Remove(ctx context.Context, clientID string) (bool, error) {
	_, err := f.doc(clientID).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Storagef(err, "firestore delete %s", clientID)
	}
	return true, nil
}
