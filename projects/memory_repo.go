package projects

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/youyuhsuan/designare/internal/errors"
)

var _ Repo = (*MemoryRepo)(nil)

type projectKey struct {
	userID    string
	projectID string
}

type MemoryRepo struct {
	infos map[projectKey]Info
	pages map[projectKey]Page
	lock  sync.RWMutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		infos: make(map[projectKey]Info),
		pages: make(map[projectKey]Page),
	}
}

func validateInfo(info *Info) error {
	if info == nil || info.ProjectID == "" || info.UserID == "" || strings.TrimSpace(info.Name) == "" {
		return fmt.Errorf("%w: project id, name and owner are required", errors.ErrInvalidRequest)
	}
	return nil
}

func (r *MemoryRepo) Insert(_ context.Context, info *Info) (string, error) {
	if err := validateInfo(info); err != nil {
		return "", err
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	key := projectKey{info.UserID, info.ProjectID}
	if _, ok := r.infos[key]; ok {
		return "", fmt.Errorf("%w: project %s exists", errors.ErrInvalidRequest, info.ProjectID)
	}
	r.infos[key] = *info
	return info.ProjectID, nil
}

func (r *MemoryRepo) Get(_ context.Context, userID, projectID string) (*Info, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	info, ok := r.infos[projectKey{userID, projectID}]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// ListMetadata returns the owner's projects, oldest first.
func (r *MemoryRepo) ListMetadata(_ context.Context, userID string) ([]Metadata, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var found []Info
	for key, info := range r.infos {
		if key.userID == userID {
			found = append(found, info)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		a, b := found[i].CreatedAt.Time(), found[j].CreatedAt.Time()
		if a.Equal(b) {
			return found[i].ProjectID < found[j].ProjectID
		}
		return a.Before(b)
	})

	list := make([]Metadata, 0, len(found))
	for _, info := range found {
		list = append(list, info.Metadata())
	}
	return list, nil
}

func (r *MemoryRepo) Rename(_ context.Context, userID, projectID, newName string, at time.Time) (*Info, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: project name is required", errors.ErrInvalidRequest)
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	key := projectKey{userID, projectID}
	info, ok := r.infos[key]
	if !ok {
		return nil, nil
	}
	info.Name = newName
	info.LastModified = TimestampOf(at)
	r.infos[key] = info
	return &info, nil
}

func (r *MemoryRepo) Delete(_ context.Context, userID, projectID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := projectKey{userID, projectID}
	delete(r.infos, key)
	delete(r.pages, key)
	return nil
}

func (r *MemoryRepo) GetPage(_ context.Context, userID, projectID string) (Page, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	page, ok := r.pages[projectKey{userID, projectID}]
	if !ok {
		return nil, nil
	}
	return maps.Clone(page), nil
}

func (r *MemoryRepo) SavePage(_ context.Context, userID, projectID string, page Page) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := projectKey{userID, projectID}
	if _, ok := r.infos[key]; !ok {
		return fmt.Errorf("%w: project %s", errors.ErrNotFound, projectID)
	}
	r.pages[key] = maps.Clone(page)
	return nil
}
