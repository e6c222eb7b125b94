package projects_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/projects"
)

var created = time.Date(2026, 5, 4, 10, 30, 0, 250_000_000, time.UTC)

func TestNewProjectInfo(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		info, err := projects.NewProjectInfo("u1", "https://designare.example/", projects.NewProject{
			Name:          "  Portfolio ",
			ScreenshotURL: "https://cdn.example.com/shot one.png",
		}, created)
		require.NoError(t, err)

		_, err = uuid.Parse(info.ProjectID)
		require.NoError(t, err)
		require.Equal(t, "u1", info.UserID)
		require.Equal(t, "Portfolio", info.Name)
		require.Equal(t, projects.TypeBlank, info.Type)
		require.Equal(t, projects.StatusActive, info.Status)
		require.Equal(t, "https://designare.example/projects/"+info.ProjectID, info.URL)
		require.Equal(t, "https://designare.example/api/thumbnail?url=https%3A%2F%2Fcdn.example.com%2Fshot+one.png", info.ThumbnailURL)
		require.Equal(t, projects.Timestamp{Seconds: created.Unix(), Nanoseconds: 250_000_000}, info.CreatedAt)
		require.Equal(t, info.CreatedAt, info.LastModified)
	})

	t.Run("custom urls and template", func(t *testing.T) {
		info, err := projects.NewProjectInfo("u1", "https://designare.example", projects.NewProject{
			Name:               "Shop",
			Type:               projects.TypeTemplate,
			Status:             projects.StatusPublished,
			ParentTemplateID:   "tpl-1",
			CustomURL:          "https://shop.example",
			CustomThumbnailURL: "https://shop.example/thumb.png",
		}, created)
		require.NoError(t, err)
		require.Equal(t, "https://shop.example", info.URL)
		require.Equal(t, "https://shop.example/thumb.png", info.ThumbnailURL)
		require.Equal(t, projects.TypeTemplate, info.Type)
		require.Equal(t, "tpl-1", info.ParentTemplateID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := projects.NewProjectInfo("u1", "", projects.NewProject{}, created)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)

		_, err = projects.NewProjectInfo("u1", "", projects.NewProject{Name: "x", Type: "wizard"}, created)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)

		_, err = projects.NewProjectInfo("u1", "", projects.NewProject{Name: "x", Status: "gone"}, created)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)

		_, err = projects.NewProjectInfo("", "", projects.NewProject{Name: "x"}, created)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})
}

func TestTimestamp(t *testing.T) {
	ts := projects.TimestampOf(created.Add(999 * time.Microsecond))
	require.Equal(t, int64(250_000_000), ts.Nanoseconds)
	require.True(t, ts.Time().Equal(created))
}

func runRepoSuite(t *testing.T, repo projects.Repo) {
	ctx := context.Background()
	newInfo := func(t *testing.T, userID, name string, at time.Time) *projects.Info {
		t.Helper()
		info, err := projects.NewProjectInfo(userID, "https://designare.example", projects.NewProject{Name: name}, at)
		require.NoError(t, err)
		return info
	}

	t.Run("insert and get", func(t *testing.T) {
		owner := uuid.NewString()
		info := newInfo(t, owner, "Landing", created)
		id, err := repo.Insert(ctx, info)
		require.NoError(t, err)
		require.Equal(t, info.ProjectID, id)

		got, err := repo.Get(ctx, owner, id)
		require.NoError(t, err)
		require.Equal(t, info, got)

		other, err := repo.Get(ctx, uuid.NewString(), id)
		require.NoError(t, err)
		require.Nil(t, other)
	})

	t.Run("insert validates", func(t *testing.T) {
		_, err := repo.Insert(ctx, &projects.Info{ProjectID: "p", UserID: "u"})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("list metadata oldest first", func(t *testing.T) {
		owner := uuid.NewString()
		second := newInfo(t, owner, "Second", created.Add(time.Hour))
		first := newInfo(t, owner, "First", created)
		for _, info := range []*projects.Info{second, first} {
			_, err := repo.Insert(ctx, info)
			require.NoError(t, err)
		}
		_, err := repo.Insert(ctx, newInfo(t, uuid.NewString(), "Someone else", created))
		require.NoError(t, err)

		list, err := repo.ListMetadata(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, []projects.Metadata{first.Metadata(), second.Metadata()}, list)

		empty, err := repo.ListMetadata(ctx, uuid.NewString())
		require.NoError(t, err)
		require.Empty(t, empty)
	})

	t.Run("rename bumps last modified", func(t *testing.T) {
		owner := uuid.NewString()
		info := newInfo(t, owner, "Old", created)
		_, err := repo.Insert(ctx, info)
		require.NoError(t, err)

		later := created.Add(2 * time.Minute)
		renamed, err := repo.Rename(ctx, owner, info.ProjectID, "New", later)
		require.NoError(t, err)
		require.NotNil(t, renamed)
		require.Equal(t, "New", renamed.Name)
		require.Equal(t, projects.TimestampOf(later), renamed.LastModified)
		require.Equal(t, info.CreatedAt, renamed.CreatedAt)

		missing, err := repo.Rename(ctx, owner, uuid.NewString(), "New", later)
		require.NoError(t, err)
		require.Nil(t, missing)

		_, err = repo.Rename(ctx, owner, info.ProjectID, " ", later)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("pages", func(t *testing.T) {
		owner := uuid.NewString()
		info := newInfo(t, owner, "Paged", created)
		_, err := repo.Insert(ctx, info)
		require.NoError(t, err)

		page, err := repo.GetPage(ctx, owner, info.ProjectID)
		require.NoError(t, err)
		require.Nil(t, page)

		require.NoError(t, repo.SavePage(ctx, owner, info.ProjectID, projects.Page{"title": "Home"}))
		page, err = repo.GetPage(ctx, owner, info.ProjectID)
		require.NoError(t, err)
		require.Equal(t, "Home", page["title"])

		err = repo.SavePage(ctx, owner, uuid.NewString(), projects.Page{"title": "Nope"})
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("delete removes info and page", func(t *testing.T) {
		owner := uuid.NewString()
		info := newInfo(t, owner, "Doomed", created)
		_, err := repo.Insert(ctx, info)
		require.NoError(t, err)
		require.NoError(t, repo.SavePage(ctx, owner, info.ProjectID, projects.Page{"title": "Bye"}))

		require.NoError(t, repo.Delete(ctx, owner, info.ProjectID))
		got, err := repo.Get(ctx, owner, info.ProjectID)
		require.NoError(t, err)
		require.Nil(t, got)
		page, err := repo.GetPage(ctx, owner, info.ProjectID)
		require.NoError(t, err)
		require.Nil(t, page)

		require.NoError(t, repo.Delete(ctx, owner, info.ProjectID))
	})
}

func TestMemoryRepo(t *testing.T) {
	runRepoSuite(t, projects.NewMemoryRepo())
}

func TestFirestoreRepo(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set; skipping Firestore integration test")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "designare-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runRepoSuite(t, projects.NewFirestoreRepo(client))
}
