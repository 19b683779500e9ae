// Package api exposes the relay engine over a JSON HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"rajaswap-relay/internal/domain"
	"rajaswap-relay/internal/eip712"
	"rajaswap-relay/internal/observability"
	"rajaswap-relay/internal/relay"
	"rajaswap-relay/internal/storage"
)

// Server routes HTTP requests to the relay service.
type Server struct {
	svc    *relay.Service
	router *mux.Router
	log    *zap.Logger
}

// NewServer creates an API server around the relay service.
func NewServer(svc *relay.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		svc:    svc,
		router: mux.NewRouter(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/sync", s.handleSyncOrder).Methods("POST")
	api.HandleFunc("/orders/fee", s.handleAttestFee).Methods("POST")
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods("GET")
	api.HandleFunc("/settlement/params", s.handleSettlementParams).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", observability.Handler()).Methods("GET")
}

// Handler returns the full HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordSubmit("bad_request")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.svc.SubmitOrder(r.Context(), &relay.SubmitRequest{
		Maker:        req.Maker,
		TokenSell:    req.TokenSell,
		AmountSell:   req.AmountSell,
		TokenBuy:     req.TokenBuy,
		AmountBuy:    req.AmountBuy,
		Nonce:        req.Nonce,
		Deadline:     req.Deadline,
		DesiredTaker: req.DesiredTaker,
		Signature:    req.Signature,
	})
	if err != nil {
		observability.RecordSubmit("error")
		s.respondServiceError(w, err)
		return
	}

	observability.RecordSubmit("ok")
	respondJSON(w, SubmitOrderResponse{Success: true, ID: order.ID})
}

func (s *Server) handleSyncOrder(w http.ResponseWriter, r *http.Request) {
	var req SyncOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		observability.RecordSync("bad_request")
		respondError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	result, err := s.svc.SyncOrder(r.Context(), req.OrderID)
	if err != nil {
		observability.RecordSync("error")
		s.respondServiceError(w, err)
		return
	}

	observability.RecordSync("ok")
	respondJSON(w, SyncOrderResponse{
		Success:      true,
		Status:       string(result.Status),
		FilledAmount: result.FilledAmount,
	})
}

func (s *Server) handleAttestFee(w http.ResponseWriter, r *http.Request) {
	var req AttestFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" || req.TxHash == "" {
		observability.RecordFeeAttestation("bad_request")
		respondError(w, http.StatusBadRequest, "orderId and txHash are required")
		return
	}

	fee, err := s.svc.AttestFee(r.Context(), req.OrderID, req.TxHash)
	if err != nil {
		observability.RecordFeeAttestation("error")
		s.respondServiceError(w, err)
		return
	}

	observability.RecordFeeAttestation("ok")
	respondJSON(w, AttestFeeResponse{Success: true, FeePaid: fee})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	orders, err := s.svc.ListOrders(r.Context(), status)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	infos := make([]OrderInfo, len(orders))
	for i, o := range orders {
		infos[i] = toOrderInfo(o)
	}
	respondJSON(w, infos)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := s.svc.GetOrder(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, toOrderInfo(order))
}

func (s *Server) handleSettlementParams(w http.ResponseWriter, r *http.Request) {
	params, err := s.svc.GetSettlementParams(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, SettlementParamsResponse{
		FeeBps:   params.FeeBps,
		MinAdFee: params.MinAdFee,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func toOrderInfo(o *domain.Order) OrderInfo {
	var deadline *int64
	if o.Deadline != nil {
		secs := o.Deadline.Unix()
		deadline = &secs
	}
	return OrderInfo{
		ID:              o.ID,
		Maker:           o.Maker,
		TokenSell:       o.TokenSell,
		AmountSell:      o.AmountSell,
		TokenBuy:        o.TokenBuy,
		AmountBuy:       o.AmountBuy,
		Nonce:           o.Nonce,
		Deadline:        deadline,
		DesiredTaker:    o.DesiredTaker,
		Signature:       o.Signature,
		Status:          string(o.Status),
		AmountBuyFilled: o.AmountBuyFilled,
		AdsFee:          o.AdsFee,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// respondServiceError maps service errors onto HTTP status codes. Anything
// not recognized is treated as an internal error without leaking details.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relay.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, relay.ErrUpstreamUnavailable):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, relay.ErrMisconfigured):
		respondError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, eip712.ErrInvalidIdentifier),
		errors.Is(err, eip712.ErrMalformedOrder),
		errors.Is(err, eip712.ErrSignatureInvalid),
		errors.Is(err, relay.ErrTokenResolutionFailed),
		errors.Is(err, relay.ErrTransactionNotSuccessful),
		errors.Is(err, relay.ErrWrongRecipient),
		errors.Is(err, storage.ErrFeeAlreadySet),
		errors.Is(err, storage.ErrReferentialViolation),
		errors.Is(err, storage.ErrDuplicateKey):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("internal error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
