package api

import (
	"fmt"
	"net/http"

	"renthub/internal/models"
)

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Admin.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", stats)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Admin.Users(r.Context())
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	respond(w, http.StatusOK, "", public)
}

func (s *Server) handleAdminProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.svc.Admin.Properties(r.Context())
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", properties)
}

func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.svc.Admin.Bookings(r.Context())
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", bookings)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Admin.DeleteUser(r.Context(), actorFrom(r), id); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "user deleted", nil)
}

func (s *Server) handleAdminDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Property.Delete(r.Context(), actorFrom(r), id); err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "property deleted", nil)
}

func (s *Server) handleAdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.svc.Admin.UpdateUserRole(r.Context(), actorFrom(r), id, req.Role)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "role updated", user.Public())
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, data []byte, fileName string, err error) {
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := s.svc.Admin.ExportBookings(r.Context())
	s.serveExport(w, r, data, fileName, err)
}

func (s *Server) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := s.svc.Admin.ExportUsers(r.Context())
	s.serveExport(w, r, data, fileName, err)
}
