// Package assets is the catalogue of building blocks offered by the page
// builder. Each asset type carries the properties and styles the editor exposes.
package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/youyuhsuan/designare/internal/errors"
)

type Property struct {
	ID           string   `json:"id,omitempty" firestore:"-"`
	Name         string   `json:"name" firestore:"name"`
	Type         string   `json:"type" firestore:"type"`
	Required     bool     `json:"required" firestore:"required"`
	DefaultValue string   `json:"default_value" firestore:"default_value"`
	Options      []string `json:"options" firestore:"options"`
}

type Style struct {
	ID           string `json:"id,omitempty" firestore:"-"`
	StyleKey     string `json:"style_key" firestore:"style_key"`
	DefaultValue string `json:"default_value" firestore:"default_value"`
}

type AssetType struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Properties  []Property `json:"properties"`
	Styles      []Style    `json:"styles"`
}

// Root is the import document: a list of asset types.
type Root struct {
	AssetTypes []AssetType `json:"assetTypes"`
}

// Validate checks an import document before anything is written.
func (r Root) Validate() error {
	if len(r.AssetTypes) == 0 {
		return fmt.Errorf("%w: no asset types", errors.ErrInvalidRequest)
	}
	for i, a := range r.AssetTypes {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Type) == "" {
			return fmt.Errorf("%w: asset type %d needs a name and a type", errors.ErrInvalidRequest, i)
		}
		for _, s := range a.Styles {
			if s.StyleKey == "" {
				return fmt.Errorf("%w: asset type %s has a style without a key", errors.ErrInvalidRequest, a.Name)
			}
		}
	}
	return nil
}

// Repo stores asset types. GetByName returns (nil, nil) when no asset type has the name.
type Repo interface {
	// Insert writes all asset types or none and returns the new ids in input order.
	Insert(ctx context.Context, root Root) ([]string, error)
	GetByName(ctx context.Context, name string) (*AssetType, error)
}
