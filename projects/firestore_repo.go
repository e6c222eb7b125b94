package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/youyuhsuan/designare/internal/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection layout: projects/{userId}/info/{projectId} and projects/{userId}/page/{projectId}.
const (
	ProjectsCollection = "projects"
	InfoCollection     = "info"
	PageCollection     = "page"
)

var _ Repo = (*FirestoreRepo)(nil)

type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

type infoDoc struct {
	ProjectID        string    `firestore:"project_id"`
	UserID           string    `firestore:"user_id"`
	Name             string    `firestore:"name"`
	ScreenshotURL    string    `firestore:"screenshot_url"`
	ThumbnailURL     string    `firestore:"thumbnail_url,omitempty"`
	URL              string    `firestore:"url"`
	Type             string    `firestore:"type"`
	ParentTemplateID string    `firestore:"parent_template_id,omitempty"`
	Status           string    `firestore:"status"`
	LastModified     time.Time `firestore:"last_modified"`
	CreatedAt        time.Time `firestore:"created_at"`
}

func toInfoDoc(info *Info) infoDoc {
	return infoDoc{
		ProjectID:        info.ProjectID,
		UserID:           info.UserID,
		Name:             info.Name,
		ScreenshotURL:    info.ScreenshotURL,
		ThumbnailURL:     info.ThumbnailURL,
		URL:              info.URL,
		Type:             string(info.Type),
		ParentTemplateID: info.ParentTemplateID,
		Status:           string(info.Status),
		LastModified:     info.LastModified.Time(),
		CreatedAt:        info.CreatedAt.Time(),
	}
}

func (d infoDoc) info(id string) *Info {
	return &Info{
		ProjectID:        id,
		UserID:           d.UserID,
		Name:             d.Name,
		ScreenshotURL:    d.ScreenshotURL,
		ThumbnailURL:     d.ThumbnailURL,
		URL:              d.URL,
		Type:             Type(d.Type),
		ParentTemplateID: d.ParentTemplateID,
		Status:           Status(d.Status),
		LastModified:     TimestampOf(d.LastModified),
		CreatedAt:        TimestampOf(d.CreatedAt),
	}
}

func (r *FirestoreRepo) infos(userID string) *firestore.CollectionRef {
	return r.client.Collection(ProjectsCollection).Doc(userID).Collection(InfoCollection)
}

func (r *FirestoreRepo) pages(userID string) *firestore.CollectionRef {
	return r.client.Collection(ProjectsCollection).Doc(userID).Collection(PageCollection)
}

func (r *FirestoreRepo) Insert(ctx context.Context, info *Info) (string, error) {
	if err := validateInfo(info); err != nil {
		return "", err
	}
	_, err := r.infos(info.UserID).Doc(info.ProjectID).Create(ctx, toInfoDoc(info))
	if status.Code(err) == codes.AlreadyExists {
		return "", fmt.Errorf("%w: project %s exists", errors.ErrInvalidRequest, info.ProjectID)
	}
	if err != nil {
		return "", errors.Storagef(err, "insert project %s", info.ProjectID)
	}
	return info.ProjectID, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, userID, projectID string) (*Info, error) {
	snap, err := r.infos(userID).Doc(projectID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "get project %s", projectID)
	}
	var doc infoDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Storagef(err, "decode project %s", projectID)
	}
	return doc.info(snap.Ref.ID), nil
}

func (r *FirestoreRepo) ListMetadata(ctx context.Context, userID string) ([]Metadata, error) {
	iter := r.infos(userID).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	list := []Metadata{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Storagef(err, "list projects of %s", userID)
		}
		var doc infoDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, errors.Storagef(err, "decode project %s", snap.Ref.ID)
		}
		list = append(list, doc.info(snap.Ref.ID).Metadata())
	}
	return list, nil
}

func (r *FirestoreRepo) Rename(ctx context.Context, userID, projectID, newName string, at time.Time) (*Info, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: project name is required", errors.ErrInvalidRequest)
	}
	_, err := r.infos(userID).Doc(projectID).Update(ctx, []firestore.Update{
		{Path: "name", Value: newName},
		{Path: "last_modified", Value: TimestampOf(at).Time()},
	})
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "rename project %s", projectID)
	}
	return r.Get(ctx, userID, projectID)
}

func (r *FirestoreRepo) Delete(ctx context.Context, userID, projectID string) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(r.infos(userID).Doc(projectID)); err != nil {
			return err
		}
		return tx.Delete(r.pages(userID).Doc(projectID))
	})
	if err != nil {
		return errors.Storagef(err, "delete project %s", projectID)
	}
	return nil
}

func (r *FirestoreRepo) GetPage(ctx context.Context, userID, projectID string) (Page, error) {
	snap, err := r.pages(userID).Doc(projectID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "get page %s", projectID)
	}
	return Page(snap.Data()), nil
}

func (r *FirestoreRepo) SavePage(ctx context.Context, userID, projectID string, page Page) error {
	info, err := r.Get(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("%w: project %s", errors.ErrNotFound, projectID)
	}
	if _, err := r.pages(userID).Doc(projectID).Set(ctx, map[string]any(page)); err != nil {
		return errors.Storagef(err, "save page %s", projectID)
	}
	return nil
}
