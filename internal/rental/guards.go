package rental

import (
	"leasebook/pkg/domain"
	dErrors "leasebook/pkg/domain-errors"
)

// Guards are pure predicate checks run before any mutation. Each returns the
// specific domain error for its violated precondition, or nil. An operation
// runs every guard it needs first; only when all pass does it touch state.

func guardOwner(p Property, caller domain.ParticipantID) error {
	if p.Owner != caller {
		return dErrors.New(dErrors.CodeNotOwner, "caller does not own this property")
	}
	return nil
}

// guardPriceable admits the two states in which the monthly price is
// writable: before the first price is set, and during an active lease.
func guardPriceable(p Property) error {
	switch p.Status {
	case domain.StatusAwaitingPrice, domain.StatusRented:
		return nil
	}
	return dErrors.New(dErrors.CodeInvalidStateForPricing, "price not writable in state "+p.Status.String())
}

func guardReadyForRent(p Property) error {
	if p.Status != domain.StatusReadyForRent {
		return dErrors.New(dErrors.CodeNotReadyForRent, "property is not ready for rent")
	}
	return nil
}

func guardListedForRent(p Property) error {
	if p.Status != domain.StatusListedForRent {
		return dErrors.New(dErrors.CodeNotListedForRent, "property is not listed for rent")
	}
	return nil
}

func guardAwaitingPayment(p Property) error {
	if p.Status != domain.StatusAwaitingPayment {
		return dErrors.New(dErrors.CodeNotAwaitingPayment, "property is not awaiting payment")
	}
	return nil
}

// guardSelectedApplicant requires the caller to be the applicant snapshotted
// by SelectApplicant.
func guardSelectedApplicant(p Property, caller domain.ParticipantID) error {
	if p.Selected == nil || p.Selected.Applicant != caller {
		return dErrors.New(dErrors.CodeNotSelectedApplicant, "caller is not the selected applicant")
	}
	return nil
}

// guardRemovable forbids removal once an applicant has been selected or a
// lease is active.
func guardRemovable(p Property) error {
	if !p.Status.Removable() {
		return dErrors.New(dErrors.CodePropertyActive, "property cannot be removed in state "+p.Status.String())
	}
	return nil
}
