package api

import (
	"net/http"

	"renthub/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "ok", map[string]string{"status": "healthy"})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type authData struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := s.svc.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusCreated, "registration successful", authData{Token: token, User: user.Public()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "login successful", authData{Token: token, User: user.Public()})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "", actorFrom(r).Public())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.svc.Auth.UpdateProfile(r.Context(), actorFrom(r).ID, req.Name, req.Phone, req.Avatar)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "profile updated", user.Public())
}
