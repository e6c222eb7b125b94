package server

import (
	"net/http"

	"github.com/youyuhsuan/designare/assets"
	"github.com/youyuhsuan/designare/internal/errors"
)

var assetRules = []statusRule{
	{errors.ErrInvalidRequest, http.StatusBadRequest, "Invalid asset document"},
}

func (s *Server) InsertAssetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var root assets.Root
		if err := decodeJSON(r, &root); err != nil {
			s.fail(w, r, err, assetRules, "Unknown error occurred while inserting assets")
			return
		}
		ids, err := s.deps.Assets.Insert(r.Context(), root)
		if err != nil {
			s.fail(w, r, err, assetRules, "Unknown error occurred while inserting assets")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Insert asset successful.",
			"ids":     ids,
		})
	}
}

func (s *Server) GetAssetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			writeError(w, r, http.StatusBadRequest, "Asset name is required", nil)
			return
		}
		asset, err := s.deps.Assets.GetByName(r.Context(), name)
		if err != nil {
			s.fail(w, r, err, nil, "Unknown error occurred while getting asset by name")
			return
		}
		if asset == nil {
			writeError(w, r, http.StatusNotFound, "Asset not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, asset)
	}
}
