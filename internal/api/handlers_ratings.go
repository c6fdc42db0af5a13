package api

import (
	"net/http"

	"renthub/internal/models"
)

func (s *Server) handleRateProperty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PropertyID int64  `json:"propertyId"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rating, err := s.svc.Rating.RateProperty(r.Context(), actorFrom(r), req.PropertyID, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusCreated, "rating saved", rating)
}

func (s *Server) handleRateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  int64  `json:"userId"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rating, err := s.svc.Rating.RateUser(r.Context(), actorFrom(r), req.UserID, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusCreated, "rating saved", rating)
}

type ratingsData struct {
	Summary *models.RatingSummary `json:"summary"`
	Ratings any                   `json:"ratings"`
}

func (s *Server) handlePropertyRatings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, ratings, err := s.svc.Rating.PropertyRatings(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	if ratings == nil {
		ratings = []*models.PropertyRating{}
	}
	respond(w, http.StatusOK, "", ratingsData{Summary: summary, Ratings: ratings})
}

func (s *Server) handleUserRatings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, ratings, err := s.svc.Rating.UserRatings(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	if ratings == nil {
		ratings = []*models.UserRating{}
	}
	respond(w, http.StatusOK, "", ratingsData{Summary: summary, Ratings: ratings})
}
