package assets_test

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/youyuhsuan/designare/assets"
	"github.com/youyuhsuan/designare/internal/errors"
)

func buttonAsset(name string) assets.AssetType {
	return assets.AssetType{
		Name:        name,
		Type:        "button",
		Icon:        "square",
		Description: "Clickable button",
		Properties: []assets.Property{
			{Name: "label", Type: "text", Required: true, DefaultValue: "Click me"},
			{Name: "variant", Type: "select", DefaultValue: "primary", Options: []string{"primary", "secondary"}},
		},
		Styles: []assets.Style{
			{StyleKey: "color", DefaultValue: "#ffffff"},
		},
	}
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, assets.Root{}.Validate(), errors.ErrInvalidRequest)
	require.ErrorIs(t, assets.Root{AssetTypes: []assets.AssetType{{Name: "x"}}}.Validate(), errors.ErrInvalidRequest)

	bad := buttonAsset("Button")
	bad.Styles = append(bad.Styles, assets.Style{DefaultValue: "1px"})
	require.ErrorIs(t, assets.Root{AssetTypes: []assets.AssetType{bad}}.Validate(), errors.ErrInvalidRequest)

	require.NoError(t, assets.Root{AssetTypes: []assets.AssetType{buttonAsset("Button")}}.Validate())
}

func runRepoSuite(t *testing.T, repo assets.Repo) {
	ctx := context.Background()

	t.Run("insert and get by name", func(t *testing.T) {
		name := "Button " + uuid.NewString()
		ids, err := repo.Insert(ctx, assets.Root{AssetTypes: []assets.AssetType{
			buttonAsset(name),
			buttonAsset(name + " large"),
		}})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		require.NotEqual(t, ids[0], ids[1])

		got, err := repo.GetByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, ids[0], got.ID)
		require.Equal(t, "button", got.Type)
		require.Equal(t, "square", got.Icon)
		require.Len(t, got.Properties, 2)
		require.Len(t, got.Styles, 1)
		require.Equal(t, "color", got.Styles[0].StyleKey)
		for _, p := range got.Properties {
			require.NotEmpty(t, p.ID)
			if p.Name == "variant" {
				require.Equal(t, []string{"primary", "secondary"}, p.Options)
			}
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		got, err := repo.GetByName(ctx, "missing "+uuid.NewString())
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("invalid document writes nothing", func(t *testing.T) {
		name := "Partial " + uuid.NewString()
		_, err := repo.Insert(ctx, assets.Root{AssetTypes: []assets.AssetType{buttonAsset(name), {Name: "no type"}}})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)

		got, err := repo.GetByName(ctx, name)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestMemoryRepo(t *testing.T) {
	runRepoSuite(t, assets.NewMemoryRepo())
}

func TestFirestoreRepo(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set; skipping Firestore integration test")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "designare-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runRepoSuite(t, assets.NewFirestoreRepo(client))
}
