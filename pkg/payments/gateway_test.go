package payments_test

import (
	"strings"
	"testing"

	"storefront/pkg/payments"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), payments.ToMinorUnits(19.99))
	assert.Equal(t, int64(120000), payments.ToMinorUnits(1200.00))
	assert.Equal(t, int64(10), payments.ToMinorUnits(0.1))
	assert.Equal(t, int64(0), payments.ToMinorUnits(0))

	// Binary float artifacts must not shave a cent off.
	assert.Equal(t, int64(2910), payments.ToMinorUnits(29.10))
}

func TestStubGateway_CreateIntent(t *testing.T) {
	gateway := payments.NewStubGateway()

	intent, err := gateway.CreateIntent(1999, "usd")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(intent.ID, "pi_"))
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, int64(1999), intent.Amount)
	assert.Equal(t, "usd", intent.Currency)

	// Two intents never share an identity.
	second, err := gateway.CreateIntent(1999, "usd")
	assert.NoError(t, err)
	assert.NotEqual(t, intent.ID, second.ID)

	_, err = gateway.CreateIntent(0, "usd")
	assert.Error(t, err)
	_, err = gateway.CreateIntent(-100, "usd")
	assert.Error(t, err)
}
