package fakeuserrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[user.Email]; ok {
		return fmt.Errorf("%w: %s", errors.ErrEmailInUse, user.Email)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[user.ID]; !ok {
		return fmt.Errorf("%w: user %s", errors.ErrUserNotFound, user.ID)
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, nil
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, nil
	}
	u := *stored
	return &u, nil
}

func (ur *FakeUserRepo) SetDisabled(ctx context.Context, email string, disabled bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUserNotFound, email)
	}
	ur.users[id].Disabled = disabled
	return nil
}
