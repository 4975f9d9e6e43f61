package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
	"github.com/reviewflow/reviewflow/internal/server/repositories/reviews"
)

type reviewJSON struct {
	ID         int64     `json:"id"`
	LeadID     string    `json:"lead_id"`
	CampaignID int64     `json:"campaign_id"`
	Rating     int       `json:"rating"`
	Feedback   *string   `json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewJSON(rv *models.Review) reviewJSON {
	return reviewJSON{
		ID:         rv.ID,
		LeadID:     rv.LeadID,
		CampaignID: rv.CampaignID,
		Rating:     rv.Rating,
		Feedback:   nullToPtr(rv.Feedback),
		CreatedAt:  rv.CreatedAt,
	}
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	var filter reviews.Filter
	if raw := r.URL.Query().Get("campaignId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid campaign ID")
			return
		}
		filter.CampaignID = id
	}
	filter.LeadID = r.URL.Query().Get("leadId")

	list, err := s.reviews.ListReviews(r.Context(), filter)
	if err != nil {
		s.logger.Error(r.Context(), "listing reviews failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]reviewJSON, 0, len(list))
	for _, rv := range list {
		out = append(out, toReviewJSON(rv))
	}
	writeJSON(w, http.StatusOK, out)
}

type submitReviewRequest struct {
	LeadID     string `json:"leadId"`
	CampaignID int64  `json:"campaignId"`
	Rating     int    `json:"rating"`
	Feedback   string `json:"feedback"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "leadId, campaignId, and rating are required")
		return
	}

	review, err := s.reviews.SubmitReview(r.Context(), req.LeadID, req.CampaignID, req.Rating, req.Feedback)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeError(w, http.StatusBadRequest, "leadId, campaignId, and rating are required")
			return
		}
		s.logger.Error(r.Context(), "submitting review failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toReviewJSON(review))
}
