package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"

	"banwbanbridge/claim"
)

func (s *Server) Claim(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "", "error reading request body")
		return
	}

	var req ClaimRequest
	if err := json.Unmarshal(body, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "", "cannot unmarshal input JSON")
		return
	}

	if req.NativeAddr == "" {
		errorJSON(w, http.StatusBadRequest, "native_addr", "native_addr is required")
		return
	}
	if err := ethav.Validate(common.HexToAddress(req.BlockchainAddr).Hex()); err != nil {
		errorJSON(w, http.StatusBadRequest, "blockchain_addr", "no blockchain address or invalid address provided")
		return
	}

	result, err := s.Claims.Claim(r.Context(), req.NativeAddr, req.BlockchainAddr, req.Signature)
	if err != nil {
		log.Printf("api: error claiming %s -> %s: %s", req.NativeAddr, req.BlockchainAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot process claim")
		return
	}

	status := "ok"
	if result != claim.Ok && result != claim.AlreadyDone {
		status = "error"
	}
	responseJSON(w, &ClaimResponse{Status: status, Result: string(result)}, http.StatusOK)
}

// ClaimedAddresses resolves the reverse claims:by-blockchain:<addr> index,
// letting a wallet enumerate every native_addr it has a confirmed claim
// on (spec.md §9 reverse-index expansion).
func (s *Server) ClaimedAddresses(w http.ResponseWriter, r *http.Request) {
	blockchainAddr := chi.URLParam(r, "blockchain_addr")

	nativeAddrs, err := s.Store.GetNativeAddressesForBlockchainAddress(r.Context(), blockchainAddr)
	if err != nil {
		log.Printf("api: error resolving claimed addresses for %s: %s", blockchainAddr, err.Error())
		errorJSON(w, http.StatusInternalServerError, "", "cannot get claimed addresses")
		return
	}
	responseJSON(w, &ClaimedAddressesResponse{Status: "ok", NativeAddrs: nativeAddrs}, http.StatusOK)
}
