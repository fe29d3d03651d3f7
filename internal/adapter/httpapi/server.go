// Package httpapi exposes wallet lookups as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/xrplens/xrplens-backend/internal/domain"
	"github.com/xrplens/xrplens-backend/internal/usecase/wallet"
)

// classicAddressPattern matches the ledger's base58 classic address shape.
var classicAddressPattern = regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,34}$`)

// Server routes HTTP requests to the wallet service.
type Server struct {
	Wallet   *wallet.Service
	APIToken string
	Log      zerolog.Logger
}

// NewServer creates a new Server instance.
func NewServer(walletService *wallet.Service, apiToken string, log zerolog.Logger) *Server {
	return &Server{
		Wallet:   walletService,
		APIToken: apiToken,
		Log:      log.With().Str("component", "httpapi").Logger(),
	}
}

// Routes builds the router: a public health probe and the authenticated
// wallet endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(BearerAuth(s.APIToken))
		r.Route("/wallets/{address}", func(r chi.Router) {
			r.Use(s.validateAddress)
			r.Get("/", s.handleOverview)
			r.Get("/summary", s.handleSummary)
			r.Get("/assets", s.handleAssets)
		})
	})
	return r
}

// validateAddress rejects malformed addresses before any upstream call.
func (s *Server) validateAddress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !classicAddressPattern.MatchString(chi.URLParam(r, "address")) {
			respondError(w, http.StatusBadRequest, "invalid wallet address")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	overview, err := s.Wallet.Overview(r.Context(), address)
	if err != nil {
		s.respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	input := wallet.SummaryInput{
		Address:         chi.URLParam(r, "address"),
		TransactionType: r.URL.Query().Get("tx_type"),
	}

	var err error
	if input.WindowDays, err = intQuery(r, "window_days"); err != nil {
		respondError(w, http.StatusBadRequest, "invalid window_days")
		return
	}
	if input.PageLimit, err = intQuery(r, "page_limit"); err != nil {
		respondError(w, http.StatusBadRequest, "invalid page_limit")
		return
	}

	result, err := s.Wallet.Summary(r.Context(), input)
	if err != nil {
		s.respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	holdings, err := s.Wallet.Assets.List(r.Context(), address)
	if err != nil {
		s.respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

// respondLookupError maps pipeline failures to the API surface. Anything
// other than a missing account is reported as one generic lookup failure;
// stage detail stays in the log.
func (s *Server) respondLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrAccountNotFound) {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	s.Log.Error().
		Err(err).
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Msg("wallet lookup failed")
	respondError(w, http.StatusBadGateway, "wallet lookup failed")
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
