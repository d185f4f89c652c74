// Package api is the HTTP edge (SPEC_FULL §4.9): a thin chi router that
// exercises the Ledger Store and Claim Manager, and enqueues jobs onto the
// Per-Account Work Queue for OP to process asynchronously. Mirrors the
// shape of the teacher's workers/http.go + workers/handlers, adapted to
// dependency-injected collaborators instead of package-level globals.
package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"banwbanbridge/claim"
	"banwbanbridge/config"
	"banwbanbridge/evmrpc"
	"banwbanbridge/store"
)

type Server struct {
	Store  *store.Store
	Claims *claim.Manager
	Chain  *evmrpc.Client
}

func New(s *store.Store, claims *claim.Manager, chain *evmrpc.Client) *Server {
	return &Server{Store: s, Claims: claims, Chain: chain}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Options("/*", corsHeaders)

	r.Get("/healthz", s.HealthCheck)

	r.Get("/balance/ban/{native_addr}", s.BalanceBAN)
	r.Get("/balance/wban", s.BalanceWBAN)

	r.Post("/claim", s.Claim)
	r.Get("/claims/by-blockchain/{blockchain_addr}", s.ClaimedAddresses)
	r.Post("/withdraw", s.Withdraw)
	r.Post("/swap/to-wban", s.SwapToWBAN)

	r.Get("/history/deposits/{native_addr}", s.HistoryDeposits)
	r.Get("/history/withdrawals/{native_addr}", s.HistoryWithdrawals)
	r.Get("/history/swaps/{native_addr}", s.HistorySwaps)

	return r
}

func corsHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, X-Requested-With")
}

// Run starts the HTTP server and blocks until it exits, mirroring the
// teacher's Worker_HTTP shape minus TLS/graceful-shutdown signal handling,
// which cmd/server owns alongside the other worker goroutines.
func (s *Server) Run() error {
	addr := httpAddr()
	log.Printf("api: listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func httpAddr() string {
	if config.Config.Server.HTTPPort == 0 {
		return ":8080"
	}
	return ":" + strconv.Itoa(config.Config.Server.HTTPPort)
}
