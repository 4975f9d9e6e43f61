package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
)

type campaignJSON struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	GoogleLink *string   `json:"google_link"`
	YelpLink   *string   `json:"yelp_link"`
	CreatedAt  time.Time `json:"created_at"`
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func toCampaignJSON(c *models.Campaign) campaignJSON {
	return campaignJSON{
		ID:         c.ID,
		Name:       c.Name,
		GoogleLink: nullToPtr(c.GoogleLink),
		YelpLink:   nullToPtr(c.YelpLink),
		CreatedAt:  c.CreatedAt,
	}
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.ListCampaigns(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "listing campaigns failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]campaignJSON, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type campaignRequest struct {
	Name       string `json:"name"`
	GoogleLink string `json:"googleLink"`
	YelpLink   string `json:"yelpLink"`
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Campaign name is required")
		return
	}

	campaign, err := s.campaigns.CreateCampaign(r.Context(), req.Name, req.GoogleLink, req.YelpLink)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeError(w, http.StatusBadRequest, "Campaign name is required")
			return
		}
		s.logger.Error(r.Context(), "creating campaign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCampaignJSON(campaign))
}

func campaignID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Campaign ID is required")
		return
	}

	campaign, err := s.campaigns.GetCampaign(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		s.logger.Error(r.Context(), "fetching campaign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCampaignJSON(campaign))
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Campaign ID is required")
		return
	}

	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Campaign name is required")
		return
	}

	campaign, err := s.campaigns.UpdateCampaign(r.Context(), id, req.Name, req.GoogleLink, req.YelpLink)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, "Campaign name is required")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "Campaign not found")
		default:
			s.logger.Error(r.Context(), "updating campaign failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toCampaignJSON(campaign))
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Campaign ID is required")
		return
	}

	if err := s.campaigns.DeleteCampaign(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		s.logger.Error(r.Context(), "deleting campaign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}

type campaignStatsJSON struct {
	CampaignID    int64      `json:"campaign_id"`
	Name          string     `json:"name"`
	ReviewCount   int64      `json:"review_count"`
	AverageRating *float64   `json:"average_rating"`
	LastReviewAt  *time.Time `json:"last_review_at"`
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.campaigns.CampaignStats(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "fetching campaign stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]campaignStatsJSON, 0, len(stats))
	for _, st := range stats {
		row := campaignStatsJSON{
			CampaignID:  st.CampaignID,
			Name:        st.Name,
			ReviewCount: st.ReviewCount,
		}
		if st.AverageRating.Valid {
			row.AverageRating = &st.AverageRating.Float64
		}
		if st.LastReviewAt.Valid {
			row.LastReviewAt = &st.LastReviewAt.Time
		}
		out = append(out, row)
	}
	writeJSON(w, http.StatusOK, out)
}
