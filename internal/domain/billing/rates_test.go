package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/billing"
)

func TestRatePolicy(t *testing.T) {
	policy := billing.DefaultRatePolicy()

	assert.NoError(t, policy.ValidateVAT(dec("21")))
	assert.NoError(t, policy.ValidateVAT(dec("0")))
	assert.NoError(t, policy.ValidateIRPF(dec("15")))

	assert.ErrorIs(t, policy.ValidateVAT(dec("16")), domain.ErrValidation)
	assert.ErrorIs(t, policy.ValidateIRPF(dec("-1")), domain.ErrValidation)
	assert.ErrorIs(t, policy.ValidateVAT(dec("120")), domain.ErrValidation)
}

// Una política sin listas (config vacía) admite cualquier tipo en rango.
func TestRatePolicy_ListaVacia(t *testing.T) {
	open := billing.RatePolicy{}
	assert.NoError(t, open.ValidateVAT(dec("16")))
	assert.ErrorIs(t, open.ValidateVAT(dec("101")), domain.ErrValidation)
}
