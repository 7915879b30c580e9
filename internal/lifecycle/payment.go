package lifecycle

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

var (
	// ClassifierTolerance is the slack, in VND, when matching the 10/90 split.
	ClassifierTolerance = decimal.NewFromInt(1000)

	depositShare   = decimal.NewFromFloat(0.1)
	remainingShare = decimal.NewFromFloat(0.9)
)

type PaymentAmounts struct {
	Total             decimal.Decimal
	Deposit           decimal.Decimal
	Remaining         decimal.Decimal
	HasDepositRequest bool
	Status            models.TransactionStatus
}

// ClassifyPayment decides whether a transaction is displayed as a full
// payment or as a deposit. It is a display heuristic only; the backend does
// not expose an explicit flag yet.
func ClassifyPayment(a PaymentAmounts) models.PaymentKind {
	if !a.HasDepositRequest || a.Deposit.IsZero() || a.Deposit.Equal(a.Total) {
		return models.PaymentKindFull
	}

	tenPercent := a.Total.Mul(depositShare)
	ninetyPercent := a.Total.Mul(remainingShare)
	if within(a.Deposit, tenPercent) && within(a.Remaining, ninetyPercent) &&
		a.Status == models.TransactionStatusCompleted {
		return models.PaymentKindFull
	}

	return models.PaymentKindDeposit
}

func within(value, target decimal.Decimal) bool {
	return value.Sub(target).Abs().LessThanOrEqual(ClassifierTolerance)
}
