// Package payments abstracts the card payment gateway. The service only
// needs an intent handle the client can confirm against; settlement webhooks
// land on the checkout pay endpoint.
package payments

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Intent is a client-side payment handle for a checkout total.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"` // minor units
	Currency     string `json:"currency"`
}

// Gateway creates payment intents with an external payment provider.
type Gateway interface {
	CreateIntent(amountMinor int64, currency string) (*Intent, error)
}

// ToMinorUnits converts a major-unit amount (e.g. 12.00) to the gateway's
// minor-unit representation (1200). Decimal arithmetic keeps 19.99 from
// becoming 1998.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// StubGateway issues locally generated intents without contacting a
// provider. It stands in for the real gateway in development and tests.
type StubGateway struct{}

// NewStubGateway creates a new StubGateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// CreateIntent returns a synthetic intent for the given amount.
func (g *StubGateway) CreateIntent(amountMinor int64, currency string) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %d", amountMinor)
	}
	id := uuid.New().String()
	return &Intent{
		ID:           "pi_" + id,
		ClientSecret: fmt.Sprintf("pi_%s_secret_%s", id, uuid.New().String()),
		Amount:       amountMinor,
		Currency:     currency,
	}, nil
}
