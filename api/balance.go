package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi"

	"banwbanbridge/config"
)

func (s *Server) BalanceBAN(w http.ResponseWriter, r *http.Request) {
	nativeAddr := chi.URLParam(r, "native_addr")

	balance, err := s.Store.GetBalance(r.Context(), nativeAddr)
	if err != nil {
		log.Printf("api: error getting BAN balance for %s: %s", nativeAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get balance")
		return
	}
	responseJSON(w, &BalanceResponse{Status: "ok", Balance: balance.String()}, http.StatusOK)
}

func (s *Server) BalanceWBAN(w http.ResponseWriter, r *http.Request) {
	balance, err := s.Chain.WBANBalance(r.Context(), config.Config.EVM.PublicAddress)
	if err != nil {
		log.Printf("api: error getting wBAN custodian balance: %s", err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get wBAN balance")
		return
	}
	responseJSON(w, &BalanceResponse{Status: "ok", Balance: balance.String()}, http.StatusOK)
}
