package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/reviewflow/reviewflow/internal/common"
)

type uploadLogoRequest struct {
	Base64      string `json:"base64"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	CampaignID  int64  `json:"campaignId"`
}

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	var req uploadLogoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Base64 == "" || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "base64 and filename are required")
		return
	}

	key, err := s.logos.UploadLogo(r.Context(), req.Base64, req.Filename, req.ContentType, req.CampaignID)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeError(w, http.StatusBadRequest, "Invalid logo upload")
			return
		}
		s.logger.Error(r.Context(), "logo upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"blobKey": key,
		"url":     "/api/serve-logo?key=" + url.QueryEscape(key),
	})
}

func (s *Server) handleServeLogo(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Object key is required")
		return
	}

	logo, err := s.logos.ServeLogo(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "Logo not found")
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, "Object key is required")
		default:
			s.logger.Error(r.Context(), "serving logo failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	defer logo.Body.Close()

	w.Header().Set("Content-Type", logo.ContentType)
	w.Header().Set("ETag", fmt.Sprintf("%q", key))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, logo.Body)
}
