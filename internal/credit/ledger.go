// Package credit tracks per-participant overpayment balances. The ledger is
// mutated in exactly one place: rent-start reconciliation. Balances never go
// negative and survive every property state change.
package credit

import (
	"fmt"

	"leasebook/pkg/domain"
)

// Ledger is an in-memory credit balance ledger. It is not safe for
// concurrent use; the rental service serializes access together with the
// rest of the entities an operation touches.
type Ledger struct {
	balances map[domain.ParticipantID]domain.Amount
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[domain.ParticipantID]domain.Amount)}
}

// Balance returns the participant's accumulated credit. Unknown participants
// have zero credit.
func (l *Ledger) Balance(p domain.ParticipantID) domain.Amount {
	return l.balances[p]
}

// Reconcile applies a payment against a required price using the
// participant's existing credit. When credit+payment covers the price it
// stores the remainder as the new credit and reports ok; otherwise nothing
// changes.
//
// The comparison happens before any subtraction so the balance can never
// wrap below zero.
func (l *Ledger) Reconcile(p domain.ParticipantID, payment, price domain.Amount) (ok bool) {
	total := l.balances[p] + payment
	if total < price {
		return false
	}
	l.set(p, total-price)
	return true
}

func (l *Ledger) set(p domain.ParticipantID, v domain.Amount) {
	if v < 0 {
		panic(fmt.Sprintf("credit: negative balance %d for %s", v, p))
	}
	if v == 0 {
		delete(l.balances, p)
		return
	}
	l.balances[p] = v
}
