package assets

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var _ Repo = (*MemoryRepo)(nil)

type MemoryRepo struct {
	items []AssetType
	lock  sync.RWMutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Insert(_ context.Context, root Root) ([]string, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	ids := make([]string, 0, len(root.AssetTypes))
	for _, a := range root.AssetTypes {
		stored := a
		stored.ID = uuid.NewString()
		stored.Properties = slices.Clone(a.Properties)
		for i := range stored.Properties {
			stored.Properties[i].ID = uuid.NewString()
		}
		stored.Styles = slices.Clone(a.Styles)
		for i := range stored.Styles {
			stored.Styles[i].ID = uuid.NewString()
		}
		r.items = append(r.items, stored)
		ids = append(ids, stored.ID)
	}
	return ids, nil
}

// GetByName returns the first asset type inserted with the name.
func (r *MemoryRepo) GetByName(_ context.Context, name string) (*AssetType, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, a := range r.items {
		if a.Name == name {
			found := a
			found.Properties = slices.Clone(a.Properties)
			found.Styles = slices.Clone(a.Styles)
			return &found, nil
		}
	}
	return nil, nil
}
