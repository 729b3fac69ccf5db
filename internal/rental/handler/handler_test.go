package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	titleregistry "leasebook/contracts/titleregistry"
	"leasebook/internal/credit"
	jwttoken "leasebook/internal/jwt_token"
	"leasebook/internal/rental"
	rentalhandler "leasebook/internal/rental/handler"
	"leasebook/internal/title"
	httptransport "leasebook/internal/transport/http"
	"leasebook/pkg/platform/events/publisher"
	eventsmemory "leasebook/pkg/platform/events/store/memory"
)

const testEscrow = "leasebook-escrow"

// HandlerSuite drives the full HTTP stack: router, middleware chain, JWT
// auth, and the rental service on in-memory stores.
type HandlerSuite struct {
	suite.Suite

	router http.Handler
	titles *title.InMemoryRegistry
	jwt    *jwttoken.JWTService

	owner       uuid.UUID
	tenant      uuid.UUID
	ownerToken  string
	tenantToken string
	property    uuid.UUID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.titles = title.NewInMemoryRegistry()
	s.jwt = jwttoken.NewJWTService("test-signing-key", "leasebook", "leasebook-api")

	svc := rental.NewService(rental.Deps{
		Store:     rental.NewInMemoryStore(),
		Credits:   credit.NewLedger(),
		Titles:    s.titles,
		Escrow:    titleregistry.Holder(testEscrow),
		Publisher: publisher.NewPublisher(eventsmemory.NewInMemoryStore()),
		Logger:    logger,
	})

	handler := rentalhandler.New(svc, logger, nil, httptransport.TokenValidatorAdapter{JWT: s.jwt})
	s.router = httptransport.NewRouter(httptransport.Deps{
		Logger:    logger,
		Rental:    handler,
		JWT:       s.jwt,
		DevTitles: s.titles,
	})

	s.owner = uuid.New()
	s.tenant = uuid.New()
	s.ownerToken = s.mintToken(s.owner)
	s.tenantToken = s.mintToken(s.tenant)
	s.property = uuid.New()
	s.titles.Mint(s.property.String(), titleregistry.Holder(s.owner.String()))
}

func (s *HandlerSuite) mintToken(participant uuid.UUID) string {
	token, err := s.jwt.GenerateAccessToken(participant, time.Hour)
	s.Require().NoError(err)
	return token
}

// do performs a request against the router. A nil body sends no payload.
func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func (s *HandlerSuite) registerProperty() {
	rec := s.do(http.MethodPost, "/properties", s.ownerToken, map[string]string{
		"property_id": s.property.String(),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) listProperty(price string) {
	s.registerProperty()
	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/price", s.ownerToken, map[string]string{
		"monthly_price_cents": price,
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/list", s.ownerToken, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestMissingTokenRejected() {
	rec := s.do(http.MethodPost, "/properties", "", map[string]string{
		"property_id": s.property.String(),
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestGarbageTokenRejected() {
	rec := s.do(http.MethodGet, "/properties/"+s.property.String(), "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestRegisterProperty() {
	rec := s.do(http.MethodPost, "/properties", s.ownerToken, map[string]string{
		"property_id": s.property.String(),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var view rental.View
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&view))
	s.Equal(s.property.String(), view.ID)
	s.Equal(s.owner.String(), view.Owner)
	s.Equal("awaiting_price", view.Status)
}

func (s *HandlerSuite) TestRegisterWithoutTitle() {
	rec := s.do(http.MethodPost, "/properties", s.ownerToken, map[string]string{
		"property_id": uuid.NewString(),
	})
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("not_registered", s.errorCode(rec))
}

func (s *HandlerSuite) TestRegisterInvalidPropertyID() {
	rec := s.do(http.MethodPost, "/properties", s.ownerToken, map[string]string{
		"property_id": "not-a-uuid",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_input", s.errorCode(rec))
}

func (s *HandlerSuite) TestSetPriceByNonOwner() {
	s.registerProperty()
	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/price", s.tenantToken, map[string]string{
		"monthly_price_cents": "100",
	})
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("not_owner", s.errorCode(rec))
}

func (s *HandlerSuite) TestFullLifecycle() {
	s.listProperty("100")

	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/applications", s.tenantToken, nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/properties/"+s.property.String()+"/applications/"+s.tenant.String(), s.ownerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var application struct {
		Applied  bool `json:"applied"`
		Selected bool `json:"selected"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&application))
	s.True(application.Applied)
	s.False(application.Selected)

	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/select", s.ownerToken, map[string]string{
		"applicant": s.tenant.String(),
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/rent", s.tenantToken, map[string]string{
		"payment_cents": "150",
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/properties/"+s.property.String(), s.ownerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var view rental.View
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&view))
	s.Equal("rented", view.Status)
	s.Equal(int64(100), view.MonthlyPrice)
	s.Equal(s.tenant.String(), view.SelectedApplicant)

	rec = s.do(http.MethodGet, "/credits/"+s.tenant.String(), s.tenantToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var credits struct {
		CreditCents int64 `json:"credit_cents"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&credits))
	s.Equal(int64(50), credits.CreditCents)
}

func (s *HandlerSuite) TestApplyTwiceConflicts() {
	s.listProperty("100")
	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/applications", s.tenantToken, nil)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/applications", s.tenantToken, nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("already_applied", s.errorCode(rec))
}

func (s *HandlerSuite) TestSelectNonApplicant() {
	s.listProperty("100")
	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/select", s.ownerToken, map[string]string{
		"applicant": uuid.NewString(),
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("has_not_applied", s.errorCode(rec))
}

func (s *HandlerSuite) TestInsufficientPayment() {
	s.listProperty("100")
	rec := s.do(http.MethodPost, "/properties/"+s.property.String()+"/applications", s.tenantToken, nil)
	s.Require().Equal(http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/select", s.ownerToken, map[string]string{
		"applicant": s.tenant.String(),
	})
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/properties/"+s.property.String()+"/rent", s.tenantToken, map[string]string{
		"payment_cents": "40",
	})
	s.Equal(http.StatusPaymentRequired, rec.Code)
	s.Equal("insufficient_payment", s.errorCode(rec))
}

func (s *HandlerSuite) TestCreditBalanceIsPrivate() {
	rec := s.do(http.MethodGet, "/credits/"+s.tenant.String(), s.ownerToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("forbidden", s.errorCode(rec))
}

func (s *HandlerSuite) TestGetOwner() {
	s.registerProperty()
	rec := s.do(http.MethodGet, "/properties/"+s.property.String()+"/owner", s.tenantToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var body struct {
		Owner string `json:"owner"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal(s.owner.String(), body.Owner)
}

func (s *HandlerSuite) TestRemoveProperty() {
	s.registerProperty()
	rec := s.do(http.MethodDelete, "/properties/"+s.property.String(), s.ownerToken, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/properties/"+s.property.String(), s.ownerToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestUnknownPropertyIs404() {
	rec := s.do(http.MethodGet, "/properties/"+uuid.NewString(), s.ownerToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("not_registered", s.errorCode(rec))
}

func (s *HandlerSuite) TestNonJSONBodyRejected() {
	req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader([]byte("property_id=x")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.ownerToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func (s *HandlerSuite) TestDevTokenMint() {
	participant := uuid.New()
	rec := s.do(http.MethodPost, "/dev/token", "", map[string]string{
		"participant": participant.String(),
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Participant string `json:"participant"`
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal(participant.String(), body.Participant)

	extracted, err := s.jwt.ExtractParticipantID(body.AccessToken)
	s.Require().NoError(err)
	s.Equal(participant, extracted)
}

func (s *HandlerSuite) TestDevTitleSeeding() {
	property := uuid.New()
	holder := uuid.New()
	rec := s.do(http.MethodPost, "/dev/titles", "", map[string]string{
		"property_id": property.String(),
		"holder":      holder.String(),
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	token := s.mintToken(holder)
	rec = s.do(http.MethodPost, "/properties", token, map[string]string{
		"property_id": property.String(),
	})
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
}
