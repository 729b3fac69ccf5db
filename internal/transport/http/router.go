// Package httptransport assembles the public router. It wires the rental
// handler, health and metrics endpoints, and the dev-mode helpers; business
// logic stays in the services.
package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	titleregistry "leasebook/contracts/titleregistry"
	jwttoken "leasebook/internal/jwt_token"
	"leasebook/internal/platform/middleware"
	rentalhandler "leasebook/internal/rental/handler"
	"leasebook/internal/title"
	"leasebook/internal/transport/http/shared"
	dErrors "leasebook/pkg/domain-errors"
)

// TokenValidatorAdapter bridges the JWT service onto the middleware's
// validator interface.
type TokenValidatorAdapter struct {
	JWT *jwttoken.JWTService
}

func (a TokenValidatorAdapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.JWT.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{ParticipantID: claims.ParticipantID}, nil
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger *slog.Logger
	Rental *rentalhandler.Handler
	JWT    *jwttoken.JWTService

	// DevTitles enables the dev-mode endpoints when non-nil: token minting
	// and title seeding. Never set in production.
	DevTitles *title.InMemoryRegistry
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if d.DevTitles != nil {
		registerDevRoutes(r, d)
	}

	d.Rental.Register(r)
	return r
}

// registerDevRoutes mounts local-development helpers: minting participant
// tokens and seeding titles so the lifecycle can be exercised end to end.
func registerDevRoutes(r chi.Router, d Deps) {
	r.Post("/dev/token", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Participant string `json:"participant"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)

		participant, err := uuid.Parse(body.Participant)
		if err != nil {
			participant = uuid.New()
		}
		token, err := d.JWT.GenerateAccessToken(participant, time.Hour)
		if err != nil {
			d.Logger.Error("dev token mint failed", "error", err)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "token mint failed"))
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{
			"participant":  participant.String(),
			"access_token": token,
		})
	})

	r.Post("/dev/titles", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PropertyID string `json:"property_id"`
			Holder     string `json:"holder"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
		if _, err := uuid.Parse(body.PropertyID); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid property id"))
			return
		}
		if _, err := uuid.Parse(body.Holder); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid holder"))
			return
		}
		d.DevTitles.Mint(body.PropertyID, titleregistry.Holder(body.Holder))
		w.WriteHeader(http.StatusNoContent)
	})
}
