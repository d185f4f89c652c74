package api

import "net/http"

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}
