package users

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/youyuhsuan/designare/internal/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

var _ UserRepo = (*FirestoreRepo)(nil)

// FirestoreRepo keeps one document per user, keyed by user id.
type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

// Create runs in a transaction so two sign-ups with the same email cannot both succeed.
func (r *FirestoreRepo) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	col := r.client.Collection(usersCollection)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(col.Where("email", "==", user.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return fmt.Errorf("%w: %s", errors.ErrEmailInUse, user.Email)
		}
		return tx.Create(col.Doc(user.ID), user)
	})
	if errors.Is(err, errors.ErrEmailInUse) {
		return err
	}
	if err != nil {
		return errors.Storagef(err, "create user %s", user.Email)
	}
	return nil
}

func (r *FirestoreRepo) Update(ctx context.Context, user *User) error {
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Storagef(err, "update user %s", user.ID)
	}
	return nil
}

func (r *FirestoreRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "get user by email")
	}
	var u User
	if err := snap.DataTo(&u); err != nil {
		return nil, errors.Storagef(err, "decode user %s", snap.Ref.ID)
	}
	return &u, nil
}

func (r *FirestoreRepo) GetByID(ctx context.Context, id string) (*User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "get user %s", id)
	}
	var u User
	if err := snap.DataTo(&u); err != nil {
		return nil, errors.Storagef(err, "decode user %s", id)
	}
	return &u, nil
}

func (r *FirestoreRepo) SetDisabled(ctx context.Context, email string, disabled bool) error {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: %s", errors.ErrUserNotFound, email)
	}
	_, err = r.client.Collection(usersCollection).Doc(u.ID).Update(ctx, []firestore.Update{{Path: "disabled", Value: disabled}})
	if err != nil {
		return errors.Storagef(err, "disable user %s", u.ID)
	}
	return nil
}
