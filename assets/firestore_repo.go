package assets

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// Each asset lives at assets/{id} with its type, properties and styles in subcollections.
const (
	AssetsCollection             = "assets"
	AssetTypesSubcollection      = "asset_types"
	AssetPropertiesSubcollection = "asset_properties"
	AssetStylesSubcollection     = "asset_styles"
)

var _ Repo = (*FirestoreRepo)(nil)

type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

type assetDoc struct {
	Name        string `firestore:"name"`
	Type        string `firestore:"type"`
	Icon        string `firestore:"icon"`
	Description string `firestore:"description"`
}

func (r *FirestoreRepo) Insert(ctx context.Context, root Root) ([]string, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}

	var ids []string
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ids = make([]string, 0, len(root.AssetTypes))
		for _, a := range root.AssetTypes {
			ref := r.client.Collection(AssetsCollection).NewDoc()
			doc := assetDoc{Name: a.Name, Type: a.Type, Icon: a.Icon, Description: a.Description}
			if err := tx.Create(ref, doc); err != nil {
				return err
			}
			if err := tx.Create(ref.Collection(AssetTypesSubcollection).NewDoc(), doc); err != nil {
				return err
			}
			for _, p := range a.Properties {
				if err := tx.Create(ref.Collection(AssetPropertiesSubcollection).NewDoc(), p); err != nil {
					return err
				}
			}
			for _, s := range a.Styles {
				if err := tx.Create(ref.Collection(AssetStylesSubcollection).NewDoc(), s); err != nil {
					return err
				}
			}
			ids = append(ids, ref.ID)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Storagef(err, "insert %d asset types", len(root.AssetTypes))
	}
	log.Info().Strs("ids", ids).Msg("assets inserted")
	return ids, nil
}

func (r *FirestoreRepo) GetByName(ctx context.Context, name string) (*AssetType, error) {
	iter := r.client.Collection(AssetsCollection).Where("name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "get asset %s", name)
	}
	var doc assetDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Storagef(err, "decode asset %s", snap.Ref.ID)
	}
	asset := &AssetType{
		ID:          snap.Ref.ID,
		Name:        doc.Name,
		Type:        doc.Type,
		Icon:        doc.Icon,
		Description: doc.Description,
		Properties:  []Property{},
		Styles:      []Style{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snaps, err := snap.Ref.Collection(AssetPropertiesSubcollection).Documents(gctx).GetAll()
		if err != nil {
			return err
		}
		for _, s := range snaps {
			var p Property
			if err := s.DataTo(&p); err != nil {
				return err
			}
			p.ID = s.Ref.ID
			asset.Properties = append(asset.Properties, p)
		}
		return nil
	})
	g.Go(func() error {
		snaps, err := snap.Ref.Collection(AssetStylesSubcollection).Documents(gctx).GetAll()
		if err != nil {
			return err
		}
		for _, s := range snaps {
			var st Style
			if err := s.DataTo(&st); err != nil {
				return err
			}
			st.ID = s.Ref.ID
			asset.Styles = append(asset.Styles, st)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Storagef(err, "get asset %s details", name)
	}
	return asset, nil
}
