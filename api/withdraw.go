package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"

	"banwbanbridge/queue"
)

func (s *Server) Withdraw(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "", "error reading request body")
		return
	}

	var req WithdrawRequest
	if err := json.Unmarshal(body, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "", "cannot unmarshal input JSON")
		return
	}
	if req.NativeAddr == "" || req.Amount == "" || req.Signature == "" || req.TimestampMs == 0 {
		errorJSON(w, http.StatusBadRequest, "", "native_addr, amount, signature and timestamp_ms are required")
		return
	}
	if err := ethav.Validate(common.HexToAddress(req.BlockchainAddr).Hex()); err != nil {
		errorJSON(w, http.StatusBadRequest, "blockchain_addr", "no blockchain address or invalid address provided")
		return
	}

	job := queue.Job{
		Kind:           queue.KindNativeWithdrawal,
		NativeAddr:     req.NativeAddr,
		BlockchainAddr: req.BlockchainAddr,
		Amount:         req.Amount,
		Signature:      req.Signature,
		TimestampMs:    req.TimestampMs,
	}
	if err := queue.Enqueue(r.Context(), job); err != nil {
		log.Printf("api: error enqueuing withdrawal for %s: %s", req.NativeAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot enqueue withdrawal")
		return
	}
	responseJSON(w, &APIResponse{Status: "ok", Message: "withdrawal queued"}, http.StatusAccepted)
}
