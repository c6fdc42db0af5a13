package api

import "net/http"

func (s *Server) handleFinancialAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.svc.Analytics.Financial(r.Context(), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", analytics)
}

func (s *Server) handlePropertyAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.svc.Analytics.Properties(r.Context(), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", analytics)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.svc.Analytics.Activities(r.Context(), actorFrom(r), queryInt(r, "limit"))
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", activities)
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply, err := s.svc.Chat.Message(r.Context(), actorFrom(r), req.Message)
	if err != nil {
		respondServiceError(w, r, s.logger, err)
		return
	}
	respond(w, http.StatusOK, "", map[string]string{"reply": reply})
}
