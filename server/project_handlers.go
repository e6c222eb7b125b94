package server

import (
	"net/http"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/projects"
)

var projectRules = []statusRule{
	{errors.ErrInvalidRequest, http.StatusBadRequest, "Missing required fields"},
	{errors.ErrNotFound, http.StatusNotFound, "Project not found"},
}

type renameProjectRequest struct {
	NewName string `json:"newName"`
}

// ownerID is the subject of the verified access token. RequireSession guarantees it is set.
func ownerID(r *http.Request) string {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.Subject
}

func (s *Server) CreateProjectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projects.NewProject
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err, projectRules, "Create project API internal server error")
			return
		}
		info, err := projects.NewProjectInfo(ownerID(r), s.config.GetBaseURL(), req, s.nowFunc())
		if err != nil {
			s.fail(w, r, err, projectRules, "Create project API internal server error")
			return
		}
		if _, err := s.deps.Projects.Insert(r.Context(), info); err != nil {
			s.fail(w, r, err, projectRules, "Create project API internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, info)
	}
}

func (s *Server) ListProjectsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Projects.ListMetadata(r.Context(), ownerID(r))
		if err != nil {
			s.fail(w, r, err, nil, "Select all projects API internal server error")
			return
		}
		if list == nil {
			list = []projects.Metadata{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "projects": list})
	}
}

func (s *Server) GetProjectInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := s.deps.Projects.Get(r.Context(), ownerID(r), r.PathValue(pathProjectID))
		if err != nil {
			s.fail(w, r, err, projectRules, "Fetching project API internal server error")
			return
		}
		if info == nil {
			writeError(w, r, http.StatusNotFound, "Project not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func (s *Server) RenameProjectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renameProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err, projectRules, "Update project name API internal server error")
			return
		}
		info, err := s.deps.Projects.Rename(r.Context(), ownerID(r), r.PathValue(pathProjectID), req.NewName, s.nowFunc())
		if err != nil {
			s.fail(w, r, err, projectRules, "Update project name API internal server error")
			return
		}
		if info == nil {
			writeError(w, r, http.StatusNotFound, "Project not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Project name updated successfully",
			"project": info,
		})
	}
}

func (s *Server) DeleteProjectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Projects.Delete(r.Context(), ownerID(r), r.PathValue(pathProjectID)); err != nil {
			s.fail(w, r, err, nil, "Delete project API internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GetProjectPageHandler answers null when the project has no page yet.
func (s *Server) GetProjectPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.deps.Projects.GetPage(r.Context(), ownerID(r), r.PathValue(pathProjectID))
		if err != nil {
			s.fail(w, r, err, nil, "Fetching project page API internal server error")
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) SaveProjectPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page projects.Page
		if err := decodeJSON(r, &page); err != nil {
			s.fail(w, r, err, projectRules, "Saving project page API internal server error")
			return
		}
		if page == nil {
			s.fail(w, r, errors.ErrInvalidRequest, projectRules, "Saving project page API internal server error")
			return
		}
		if err := s.deps.Projects.SavePage(r.Context(), ownerID(r), r.PathValue(pathProjectID), page); err != nil {
			s.fail(w, r, err, projectRules, "Saving project page API internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
