package rental

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	titleregistry "leasebook/contracts/titleregistry"
	"leasebook/internal/credit"
	"leasebook/internal/platform/middleware"
	"leasebook/internal/rental/metrics"
	"leasebook/pkg/domain"
	dErrors "leasebook/pkg/domain-errors"
	"leasebook/pkg/platform/events"
	"leasebook/pkg/platform/sentinel"
)

// EventPublisher receives the lifecycle events an operation emits after its
// mutation committed. Failed operations emit nothing.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// SummaryCache is the optional read-model cache. It is write-through and
// best-effort; guards never consult it.
type SummaryCache interface {
	Put(ctx context.Context, view View)
	Get(ctx context.Context, id domain.PropertyID) (View, bool)
	Evict(ctx context.Context, id domain.PropertyID)
}

// Deps wires a Service. Store, Credits, Titles, Escrow and Publisher are
// required; the rest default sensibly.
type Deps struct {
	Store     Store
	Credits   *credit.Ledger
	Titles    titleregistry.Registry
	Escrow    titleregistry.Holder
	Publisher EventPublisher
	Cache     SummaryCache
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// Service runs the rental lifecycle. Every public operation takes the
// service mutex, so an operation sees and leaves consistent state across the
// property ledger, the application sets, and the credit ledger: all guard
// checks happen before the first mutation, and a failed guard changes
// nothing.
type Service struct {
	mu sync.Mutex

	store     Store
	credits   *credit.Ledger
	titles    titleregistry.Registry
	escrow    titleregistry.Holder
	publisher EventPublisher
	cache     SummaryCache
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

// NewService creates the lifecycle service.
func NewService(d Deps) *Service {
	s := &Service{
		store:     d.Store,
		credits:   d.Credits,
		titles:    d.Titles,
		escrow:    d.Escrow,
		publisher: d.Publisher,
		cache:     d.Cache,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       d.Now,
		tracer:    otel.Tracer("leasebook/rental"),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// RegisterProperty creates the ledger entry for a property the owner holds
// title to. The title registry is consulted exactly once: the current holder
// must be the registering owner and must not already be the escrow party;
// custody then moves into escrow before the entry is created.
func (s *Service) RegisterProperty(ctx context.Context, id domain.PropertyID, owner domain.ParticipantID) (Property, error) {
	ctx, span := s.tracer.Start(ctx, "rental.RegisterProperty")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Contains(ctx, id) {
		return Property{}, s.reject(dErrors.New(dErrors.CodeAlreadyRegistered, "property is already registered"))
	}

	holder, err := s.titles.CurrentHolder(ctx, id.String())
	if err != nil {
		if errors.Is(err, titleregistry.ErrUnknownTitle) {
			return Property{}, s.reject(dErrors.New(dErrors.CodeNotRegistered, "no title exists for this property"))
		}
		return Property{}, dErrors.Wrap(dErrors.CodeInternal, "title registry lookup failed", err)
	}
	if holder == s.escrow {
		return Property{}, s.reject(dErrors.New(dErrors.CodeAlreadyRegistered, "title is already held in escrow"))
	}
	if holder != titleregistry.Holder(owner.String()) {
		return Property{}, s.reject(dErrors.New(dErrors.CodeNotOwner, "caller does not hold the property title"))
	}
	if err := s.titles.TransferCustody(ctx, id.String(), holder, s.escrow); err != nil {
		return Property{}, dErrors.Wrap(dErrors.CodeInternal, "title custody transfer failed", err)
	}

	p := Property{
		ID:           id,
		Owner:        owner,
		Status:       domain.StatusAwaitingPrice,
		RegisteredAt: s.now(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		// Contains was checked above; any failure here is a defect.
		return Property{}, dErrors.Wrap(dErrors.CodeInternal, "ledger insert failed", err)
	}

	s.metrics.IncPropertiesRegistered()
	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventPropertyRegistered, Property: id, Actor: owner})
	s.logger.InfoContext(ctx, "property registered", "property", id.String(), "owner", owner.String())
	return p, nil
}

// SetMonthlyPrice sets the monthly price. From awaiting_price this advances
// the property to ready_for_rent; while rented the price may be changed with
// no further constraint.
func (s *Service) SetMonthlyPrice(ctx context.Context, id domain.PropertyID, price domain.Amount, caller domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.SetMonthlyPrice")
	defer span.End()

	if !price.IsValid() {
		return s.reject(dErrors.New(dErrors.CodeInvalidInput, "price cannot be negative"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardOwner(p, caller); err != nil {
		return s.reject(err)
	}
	if err := guardPriceable(p); err != nil {
		return s.reject(err)
	}

	p.MonthlyPrice = price
	if p.Status == domain.StatusAwaitingPrice {
		p.Status = domain.StatusReadyForRent
	}
	if err := s.store.Update(ctx, p); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "ledger update failed", err)
	}

	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventPriceSet, Property: id, Actor: caller, Price: price})
	s.logger.InfoContext(ctx, "price set", "property", id.String(), "price_cents", int64(price), "status", p.Status.String())
	return nil
}

// ListForRent opens the property to applications.
func (s *Service) ListForRent(ctx context.Context, id domain.PropertyID, caller domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.ListForRent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardOwner(p, caller); err != nil {
		return s.reject(err)
	}
	if err := guardReadyForRent(p); err != nil {
		return s.reject(err)
	}

	p.Status = domain.StatusListedForRent
	p.Selected = nil // drop any stale selection snapshot
	p.SelectTime = time.Time{}
	if err := s.store.Update(ctx, p); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "ledger update failed", err)
	}

	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventPropertyListed, Property: id, Actor: caller})
	s.logger.InfoContext(ctx, "property listed", "property", id.String())
	return nil
}

// ApplyForRent records an application for a listed property. A participant
// may apply at most once per property.
func (s *Service) ApplyForRent(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.ApplyForRent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardListedForRent(p); err != nil {
		return s.reject(err)
	}

	app := Application{Applicant: applicant, AppliedAt: s.now()}
	if err := s.store.AddApplication(ctx, id, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return s.reject(dErrors.New(dErrors.CodeAlreadyApplied, "participant has already applied for this property"))
		}
		return dErrors.Wrap(dErrors.CodeInternal, "application insert failed", err)
	}

	s.metrics.IncApplicationsSubmitted()
	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventApplicationMade, Property: id, Actor: applicant})
	s.logger.InfoContext(ctx, "application submitted", "property", id.String(), "applicant", applicant.String())
	return nil
}

// SelectApplicant snapshots one applicant onto the property and moves it to
// awaiting_payment. Selection order among applicants is the owner's free
// choice; the only requirement is that the applicant applied.
func (s *Service) SelectApplicant(ctx context.Context, id domain.PropertyID, applicant, caller domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.SelectApplicant")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardOwner(p, caller); err != nil {
		return s.reject(err)
	}
	if err := guardListedForRent(p); err != nil {
		return s.reject(err)
	}
	app, err := s.store.GetApplication(ctx, id, applicant)
	if err != nil {
		return s.reject(dErrors.New(dErrors.CodeHasNotApplied, "applicant has not applied for this property"))
	}

	selected := app
	p.Selected = &selected
	p.SelectTime = s.now()
	p.Status = domain.StatusAwaitingPayment
	if err := s.store.Update(ctx, p); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "ledger update failed", err)
	}

	s.metrics.IncApplicantsSelected()
	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventApplicantSelected, Property: id, Actor: applicant})
	s.logger.InfoContext(ctx, "applicant selected", "property", id.String(), "applicant", applicant.String())
	return nil
}

// StartRent reconciles the first monthly payment and activates the lease.
// The caller's existing credit counts toward the price; any overpayment
// becomes new credit. The comparison runs before any mutation, so a
// shortfall changes nothing.
func (s *Service) StartRent(ctx context.Context, id domain.PropertyID, payment domain.Amount, caller domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.StartRent")
	defer span.End()

	if !payment.IsValid() {
		return s.reject(dErrors.New(dErrors.CodeInvalidInput, "payment cannot be negative"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardAwaitingPayment(p); err != nil {
		return s.reject(err)
	}
	if err := guardSelectedApplicant(p, caller); err != nil {
		return s.reject(err)
	}

	if !s.credits.Reconcile(caller, payment, p.MonthlyPrice) {
		s.metrics.IncInsufficientPayments()
		return s.reject(dErrors.New(dErrors.CodeInsufficientPayment, "credit plus payment does not cover the monthly price"))
	}

	p.RentStartTime = s.now()
	p.Status = domain.StatusRented
	if err := s.store.Update(ctx, p); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "ledger update failed", err)
	}

	s.metrics.IncRentsStarted()
	s.cachePut(ctx, p)
	s.emit(ctx, events.Event{Type: events.EventRentStarted, Property: id, Actor: caller, Price: p.MonthlyPrice})
	s.logger.InfoContext(ctx, "rent started",
		"property", id.String(),
		"tenant", caller.String(),
		"credit_cents", int64(s.credits.Balance(caller)),
	)
	return nil
}

// RemoveProperty deletes the ledger entry. Removal is forbidden once an
// applicant has been selected or a lease is active; earned credit is a
// participant-level balance and survives the removal.
func (s *Service) RemoveProperty(ctx context.Context, id domain.PropertyID, caller domain.ParticipantID) error {
	ctx, span := s.tracer.Start(ctx, "rental.RemoveProperty")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return s.reject(err)
	}
	if err := guardOwner(p, caller); err != nil {
		return s.reject(err)
	}
	if err := guardRemovable(p); err != nil {
		return s.reject(err)
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "ledger remove failed", err)
	}

	s.metrics.IncPropertiesRemoved()
	if s.cache != nil {
		s.cache.Evict(ctx, id)
	}
	s.logger.InfoContext(ctx, "property removed", "property", id.String())
	return nil
}

// IsRegistered reports whether the property exists in the ledger.
func (s *Service) IsRegistered(ctx context.Context, id domain.PropertyID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Contains(ctx, id)
}

// GetProperty returns the read model for a property. The summary cache is
// tried first; a miss falls through to the ledger and repopulates it.
func (s *Service) GetProperty(ctx context.Context, id domain.PropertyID) (View, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, id); ok {
			return v, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return View{}, err
	}
	v := NewView(p, s.store.CountApplications(ctx, id))
	if s.cache != nil {
		s.cache.Put(ctx, v)
	}
	return v, nil
}

// GetOwner returns the owner recorded at registration.
func (s *Service) GetOwner(ctx context.Context, id domain.PropertyID) (domain.ParticipantID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return domain.ParticipantID{}, err
	}
	return p.Owner, nil
}

// HasApplied reports whether the participant has an application on file.
func (s *Service) HasApplied(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Contains(ctx, id) {
		return false, dErrors.New(dErrors.CodeNotRegistered, "property is not registered")
	}
	_, err := s.store.GetApplication(ctx, id, applicant)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// IsSelectedApplicant reports whether the participant is the snapshotted
// selection.
func (s *Service) IsSelectedApplicant(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getRegistered(ctx, id)
	if err != nil {
		return false, err
	}
	return p.Selected != nil && p.Selected.Applicant == applicant, nil
}

// CreditBalance returns the participant's accumulated credit.
func (s *Service) CreditBalance(_ context.Context, participant domain.ParticipantID) domain.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credits.Balance(participant)
}

// getRegistered translates the store's absence sentinel into the domain
// error every operation shares.
func (s *Service) getRegistered(ctx context.Context, id domain.PropertyID) (Property, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Property{}, dErrors.New(dErrors.CodeNotRegistered, "property is not registered")
		}
		return Property{}, dErrors.Wrap(dErrors.CodeInternal, "ledger lookup failed", err)
	}
	return p, nil
}

// reject counts a guard rejection and passes the error through unchanged.
func (s *Service) reject(err error) error {
	s.metrics.IncGuardRejection(string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) cachePut(ctx context.Context, p Property) {
	if s.cache == nil {
		return
	}
	s.cache.Put(ctx, NewView(p, s.store.CountApplications(ctx, p.ID)))
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now()
	event.RequestID = middleware.GetRequestID(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "event emission failed",
			"type", string(event.Type),
			"property", event.Property.String(),
			"error", err,
		)
	}
}
