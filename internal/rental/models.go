// Package rental implements the property-rental lifecycle: registration,
// pricing, listing, applications, applicant selection, rent start, and
// removal. All state lives in the in-memory store; every mutating operation
// runs its guards first and changes nothing when a guard fails.
package rental

import (
	"time"

	"leasebook/pkg/domain"
)

// Property is one registered rental unit as tracked by the ledger.
type Property struct {
	ID           domain.PropertyID
	Owner        domain.ParticipantID
	MonthlyPrice domain.Amount
	Status       domain.RentalStatus

	// Selected is the snapshot of the chosen application, set by
	// SelectApplicant and cleared when the property is (re)listed.
	Selected *Application

	SelectTime    time.Time
	RentStartTime time.Time
	RegisteredAt  time.Time
}

// Application records one applicant's request to rent a property. At most
// one exists per (property, applicant) pair.
type Application struct {
	Applicant domain.ParticipantID
	AppliedAt time.Time
}

// View is the read model returned by queries and the HTTP layer.
type View struct {
	ID                string `json:"id"`
	Owner             string `json:"owner"`
	MonthlyPrice      int64  `json:"monthly_price_cents"`
	Status            string `json:"status"`
	StatusDisplay     string `json:"status_display"`
	SelectedApplicant string `json:"selected_applicant,omitempty"`
	SelectTime        string `json:"select_time,omitempty"`
	RentStartTime     string `json:"rent_start_time,omitempty"`
	Applicants        int    `json:"applicants"`
}

// NewView projects a property (and its application count) into the read
// model.
func NewView(p Property, applicants int) View {
	v := View{
		ID:            p.ID.String(),
		Owner:         p.Owner.String(),
		MonthlyPrice:  int64(p.MonthlyPrice),
		Status:        p.Status.String(),
		StatusDisplay: p.Status.Display(),
		Applicants:    applicants,
	}
	if p.Selected != nil {
		v.SelectedApplicant = p.Selected.Applicant.String()
	}
	if !p.SelectTime.IsZero() {
		v.SelectTime = p.SelectTime.Format(time.RFC3339Nano)
	}
	if !p.RentStartTime.IsZero() {
		v.RentStartTime = p.RentStartTime.Format(time.RFC3339Nano)
	}
	return v
}
