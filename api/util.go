package api

import (
	"encoding/json"
	"net/http"
)

func responseJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func errorJSON(w http.ResponseWriter, code int, field, message string) {
	responseJSON(w, &APIResponse{Status: "error", Field: field, Message: message}, code)
}
