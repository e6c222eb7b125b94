// Package projects holds the website projects a user builds: the info record
// listed on the dashboard and the page document edited in the builder.
package projects

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/youyuhsuan/designare/internal/errors"
)

type Type string

const (
	TypeBlank    Type = "blank"
	TypeTemplate Type = "template"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
	StatusPublished Status = "published"
)

func (t Type) valid() bool {
	return t == TypeBlank || t == TypeTemplate
}

func (s Status) valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusDeleted, StatusPublished:
		return true
	}
	return false
}

// Timestamp is the wire form of a point in time, split the way browser clients
// expect it. Precision is milliseconds.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func TimestampOf(t time.Time) Timestamp {
	ms := t.UnixMilli()
	return Timestamp{
		Seconds:     ms / 1000,
		Nanoseconds: (ms % 1000) * int64(time.Millisecond),
	}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, ts.Nanoseconds).UTC()
}

// Metadata is the summary shown in project listings.
type Metadata struct {
	ProjectID     string    `json:"projectId"`
	Name          string    `json:"name"`
	ScreenshotURL string    `json:"screenshotUrl"`
	LastModified  Timestamp `json:"lastModified"`
	CreatedAt     Timestamp `json:"createdAt"`
}

type Info struct {
	ProjectID        string    `json:"projectId"`
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	ScreenshotURL    string    `json:"screenshotUrl"`
	ThumbnailURL     string    `json:"thumbnailUrl,omitempty"`
	URL              string    `json:"url"`
	Type             Type      `json:"type"`
	ParentTemplateID string    `json:"parentTemplateId,omitempty"`
	Status           Status    `json:"status"`
	LastModified     Timestamp `json:"lastModified"`
	CreatedAt        Timestamp `json:"createdAt"`
}

func (i Info) Metadata() Metadata {
	return Metadata{
		ProjectID:     i.ProjectID,
		Name:          i.Name,
		ScreenshotURL: i.ScreenshotURL,
		LastModified:  i.LastModified,
		CreatedAt:     i.CreatedAt,
	}
}

// Page is the builder document of a project. Its shape belongs to the client.
type Page map[string]any

// NewProject is the create request accepted from clients.
type NewProject struct {
	Name               string `json:"name"`
	Type               Type   `json:"type"`
	Status             Status `json:"status"`
	ParentTemplateID   string `json:"parentTemplateId,omitempty"`
	ScreenshotURL      string `json:"screenshotUrl,omitempty"`
	CustomURL          string `json:"customUrl,omitempty"`
	CustomThumbnailURL string `json:"customThumbnailUrl,omitempty"`
}

// NewProjectInfo builds the info record for a new project owned by userID.
// Type defaults to blank and status to active. Unless overridden, the public url
// and the thumbnail url are derived from baseURL.
func NewProjectInfo(userID, baseURL string, req NewProject, now time.Time) (*Info, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", errors.ErrInvalidRequest)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: project owner is required", errors.ErrInvalidRequest)
	}
	if req.Type == "" {
		req.Type = TypeBlank
	}
	if !req.Type.valid() {
		return nil, fmt.Errorf("%w: unknown project type %q", errors.ErrInvalidRequest, req.Type)
	}
	if req.Status == "" {
		req.Status = StatusActive
	}
	if !req.Status.valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", errors.ErrInvalidRequest, req.Status)
	}

	base := strings.TrimRight(baseURL, "/")
	projectID := uuid.New().String()
	ts := TimestampOf(now)

	info := &Info{
		ProjectID:        projectID,
		UserID:           userID,
		Name:             name,
		ScreenshotURL:    req.ScreenshotURL,
		URL:              req.CustomURL,
		ThumbnailURL:     req.CustomThumbnailURL,
		Type:             req.Type,
		ParentTemplateID: req.ParentTemplateID,
		Status:           req.Status,
		LastModified:     ts,
		CreatedAt:        ts,
	}
	if info.URL == "" {
		info.URL = base + "/projects/" + projectID
	}
	if info.ThumbnailURL == "" {
		info.ThumbnailURL = base + "/api/thumbnail?url=" + url.QueryEscape(req.ScreenshotURL)
	}
	return info, nil
}
