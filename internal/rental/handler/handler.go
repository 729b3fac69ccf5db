// Package handler exposes the rental lifecycle over HTTP. It is a thin
// layer: parse, delegate to the service, translate the domain error.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leasebook/internal/platform/metrics"
	"leasebook/internal/platform/middleware"
	"leasebook/internal/rental"
	"leasebook/internal/transport/http/shared"
	"leasebook/pkg/domain"
	dErrors "leasebook/pkg/domain-errors"
)

// Service defines the lifecycle operations the handler delegates to.
type Service interface {
	RegisterProperty(ctx context.Context, id domain.PropertyID, owner domain.ParticipantID) (rental.Property, error)
	SetMonthlyPrice(ctx context.Context, id domain.PropertyID, price domain.Amount, caller domain.ParticipantID) error
	ListForRent(ctx context.Context, id domain.PropertyID, caller domain.ParticipantID) error
	ApplyForRent(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) error
	SelectApplicant(ctx context.Context, id domain.PropertyID, applicant, caller domain.ParticipantID) error
	StartRent(ctx context.Context, id domain.PropertyID, payment domain.Amount, caller domain.ParticipantID) error
	RemoveProperty(ctx context.Context, id domain.PropertyID, caller domain.ParticipantID) error

	IsRegistered(ctx context.Context, id domain.PropertyID) bool
	GetProperty(ctx context.Context, id domain.PropertyID) (rental.View, error)
	GetOwner(ctx context.Context, id domain.PropertyID) (domain.ParticipantID, error)
	HasApplied(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) (bool, error)
	IsSelectedApplicant(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) (bool, error)
	CreditBalance(ctx context.Context, participant domain.ParticipantID) domain.Amount
}

// Handler handles property lifecycle endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

// New creates a rental Handler.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator,
	}
}

// Register registers the rental routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.validator, h.logger))

	router.Post("/properties", h.handleRegister)
	router.Post("/properties/{propertyID}/price", h.handleSetPrice)
	router.Post("/properties/{propertyID}/list", h.handleList)
	router.Post("/properties/{propertyID}/applications", h.handleApply)
	router.Post("/properties/{propertyID}/select", h.handleSelect)
	router.Post("/properties/{propertyID}/rent", h.handleStartRent)
	router.Delete("/properties/{propertyID}", h.handleRemove)

	router.Get("/properties/{propertyID}", h.handleGet)
	router.Get("/properties/{propertyID}/owner", h.handleGetOwner)
	router.Get("/properties/{propertyID}/applications/{participantID}", h.handleHasApplied)
	router.Get("/credits/{participantID}", h.handleCreditBalance)

	r.Mount("/", router)
}

// caller extracts the authenticated participant set by RequireAuth.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.ParticipantID, bool) {
	raw := middleware.GetParticipantID(r.Context())
	if raw == "" {
		// Should never happen behind RequireAuth.
		h.logger.ErrorContext(r.Context(), "participant missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.ParticipantID{}, false
	}
	id, err := domain.ParseParticipantID(raw)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid participant identity"))
		return domain.ParticipantID{}, false
	}
	return id, true
}

func (h *Handler) propertyID(w http.ResponseWriter, r *http.Request) (domain.PropertyID, bool) {
	id, err := domain.ParsePropertyID(chi.URLParam(r, "propertyID"))
	if err != nil {
		shared.WriteError(w, err)
		return domain.PropertyID{}, false
	}
	return id, true
}

type registerRequest struct {
	PropertyID string `json:"property_id"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	id, err := domain.ParsePropertyID(req.PropertyID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.service.RegisterProperty(r.Context(), id, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, rental.NewView(p, 0))
}

type priceRequest struct {
	MonthlyPriceCents string `json:"monthly_price_cents"`
}

func (h *Handler) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	price, err := domain.ParseAmount(req.MonthlyPriceCents)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.SetMonthlyPrice(r.Context(), id, price, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	if err := h.service.ListForRent(r.Context(), id, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	if err := h.service.ApplyForRent(r.Context(), id, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type selectRequest struct {
	Applicant string `json:"applicant"`
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	applicant, err := domain.ParseParticipantID(req.Applicant)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.SelectApplicant(r.Context(), id, applicant, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startRentRequest struct {
	PaymentCents string `json:"payment_cents"`
}

func (h *Handler) handleStartRent(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	var req startRentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	payment, err := domain.ParseAmount(req.PaymentCents)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.StartRent(r.Context(), id, payment, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveProperty(r.Context(), id, caller); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	owner, err := h.service.GetOwner(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"owner": owner.String()})
}

func (h *Handler) handleHasApplied(w http.ResponseWriter, r *http.Request) {
	id, ok := h.propertyID(w, r)
	if !ok {
		return
	}
	participant, err := domain.ParseParticipantID(chi.URLParam(r, "participantID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	applied, err := h.service.HasApplied(r.Context(), id, participant)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	selected, err := h.service.IsSelectedApplicant(r.Context(), id, participant)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{
		"applied":  applied,
		"selected": selected,
	})
}

func (h *Handler) handleCreditBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	participant, err := domain.ParseParticipantID(chi.URLParam(r, "participantID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	// Balances are private: participants read their own only.
	if participant != caller {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "credit balances are private"))
		return
	}
	balance := h.service.CreditBalance(r.Context(), participant)
	shared.WriteJSON(w, http.StatusOK, map[string]int64{"credit_cents": int64(balance)})
}
