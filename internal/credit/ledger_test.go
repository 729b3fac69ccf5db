package credit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"leasebook/pkg/domain"
)

type LedgerSuite struct {
	suite.Suite
	ledger *Ledger
	tenant domain.ParticipantID
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = NewLedger()
	s.tenant = domain.ParticipantID(uuid.New())
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) TestUnknownParticipantHasZeroBalance() {
	s.Equal(domain.Amount(0), s.ledger.Balance(s.tenant))
}

func (s *LedgerSuite) TestOverpaymentBecomesCredit() {
	ok := s.ledger.Reconcile(s.tenant, 150, 100)
	s.True(ok)
	s.Equal(domain.Amount(50), s.ledger.Balance(s.tenant))
}

func (s *LedgerSuite) TestExactPaymentLeavesNoCredit() {
	ok := s.ledger.Reconcile(s.tenant, 100, 100)
	s.True(ok)
	s.Equal(domain.Amount(0), s.ledger.Balance(s.tenant))
}

func (s *LedgerSuite) TestCreditCoversShortPayment() {
	s.True(s.ledger.Reconcile(s.tenant, 150, 100)) // banks 50
	s.True(s.ledger.Reconcile(s.tenant, 60, 100))  // 50 + 60 >= 100
	s.Equal(domain.Amount(10), s.ledger.Balance(s.tenant))
}

func (s *LedgerSuite) TestShortfallChangesNothing() {
	s.True(s.ledger.Reconcile(s.tenant, 130, 100)) // banks 30

	ok := s.ledger.Reconcile(s.tenant, 40, 100)
	s.False(ok)
	s.Equal(domain.Amount(30), s.ledger.Balance(s.tenant), "failed reconciliation must not touch the balance")
}

func (s *LedgerSuite) TestZeroPaymentWithSufficientCredit() {
	s.True(s.ledger.Reconcile(s.tenant, 200, 100)) // banks 100
	s.True(s.ledger.Reconcile(s.tenant, 0, 100))
	s.Equal(domain.Amount(0), s.ledger.Balance(s.tenant))
}

func (s *LedgerSuite) TestBalancesAreIndependent() {
	other := domain.ParticipantID(uuid.New())
	s.True(s.ledger.Reconcile(s.tenant, 150, 100))

	s.Equal(domain.Amount(0), s.ledger.Balance(other))
	s.False(s.ledger.Reconcile(other, 10, 100))
	s.Equal(domain.Amount(50), s.ledger.Balance(s.tenant))
}
