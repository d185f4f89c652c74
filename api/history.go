package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi"

	"banwbanbridge/config"
)

type HistoryResponse struct {
	Status  string      `json:"status"`
	Entries interface{} `json:"entries"`
}

func (s *Server) HistoryDeposits(w http.ResponseWriter, r *http.Request) {
	nativeAddr := chi.URLParam(r, "native_addr")

	entries, err := s.Store.GetDeposits(r.Context(), nativeAddr)
	if err != nil {
		log.Printf("api: error getting deposit history for %s: %s", nativeAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get deposit history")
		return
	}
	responseJSON(w, &HistoryResponse{Status: "ok", Entries: entries}, http.StatusOK)
}

func (s *Server) HistoryWithdrawals(w http.ResponseWriter, r *http.Request) {
	nativeAddr := chi.URLParam(r, "native_addr")

	entries, err := s.Store.GetWithdrawals(r.Context(), nativeAddr)
	if err != nil {
		log.Printf("api: error getting withdrawal history for %s: %s", nativeAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get withdrawal history")
		return
	}
	responseJSON(w, &HistoryResponse{Status: "ok", Entries: entries}, http.StatusOK)
}

func (s *Server) HistorySwaps(w http.ResponseWriter, r *http.Request) {
	nativeAddr := chi.URLParam(r, "native_addr")
	blockchainAddr := r.URL.Query().Get("blockchain_addr")

	entries, err := s.Store.GetSwaps(r.Context(), blockchainAddr, nativeAddr, config.Config.EVM.Explorer)
	if err != nil {
		log.Printf("api: error getting swap history for %s: %s", nativeAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get swap history")
		return
	}
	responseJSON(w, &HistoryResponse{Status: "ok", Entries: entries}, http.StatusOK)
}
