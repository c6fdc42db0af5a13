package api

import (
	"net/http"
	"time"

	"renthub/internal/service"
)

type bookingRequest struct {
	PropertyID     int64  `json:"propertyId"`
	Message        string `json:"message"`
	MoveInDate     string `json:"moveInDate"`
	DurationMonths int    `json:"durationMonths"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := service.CreateInput{
		PropertyID:     req.PropertyID,
		Message:        req.Message,
		DurationMonths: req.DurationMonths,
	}
	if req.MoveInDate != "" {
		moveIn, err := time.Parse("2006-01-02", req.MoveInDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid moveInDate; expected YYYY-MM-DD")
			return
		}
		in.MoveInDate = &moveIn
	}

	booking, err := s.svc.Booking.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusCreated, "booking request submitted", booking)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.svc.Booking.TenantBookings(r.Context(), actorFrom(r).ID)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", bookings)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Booking.Cancel(r.Context(), actorFrom(r), id); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "booking cancelled", nil)
}

func (s *Server) handleBookingRequests(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.svc.Booking.OwnerRequests(r.Context(), actorFrom(r).ID)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", bookings)
}

func (s *Server) handleBookingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Booking.OwnerStats(r.Context(), actorFrom(r).ID)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", stats)
}

func (s *Server) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Status     string `json:"status"`
		OwnerNotes string `json:"ownerNotes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.svc.Booking.Decide(r.Context(), actorFrom(r), id, req.Status, req.OwnerNotes)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "booking "+booking.Status, booking)
}
