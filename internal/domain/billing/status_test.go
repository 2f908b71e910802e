package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/billing"
)

var testNow = time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC)

func TestTransition_CobradaExigeFecha(t *testing.T) {
	t.Run("sin fecha se toma ahora", func(t *testing.T) {
		next, err := billing.Transition(
			billing.Payment{Status: billing.StatusPendiente},
			billing.Payment{Status: billing.StatusCobrada, Method: billing.MethodTransferencia},
			testNow,
		)
		require.NoError(t, err)
		require.NotNil(t, next.Date)
		assert.Equal(t, testNow, *next.Date)
	})
	t.Run("la fecha aportada se respeta", func(t *testing.T) {
		paid := day("2025-07-10")
		next, err := billing.Transition(
			billing.Payment{Status: billing.StatusPendiente},
			billing.Payment{Status: billing.StatusCobrada, Date: &paid},
			testNow,
		)
		require.NoError(t, err)
		assert.Equal(t, paid, *next.Date)
	})
}

// TestTransition_PendienteBorraEvidencia: volver a PENDIENTE borra fecha,
// método y referencia. Intencionado: una COBRADA no puede volver atrás
// conservando la evidencia de cobro.
func TestTransition_PendienteBorraEvidencia(t *testing.T) {
	paid := day("2025-07-10")
	next, err := billing.Transition(
		billing.Payment{Status: billing.StatusCobrada, Date: &paid, Method: billing.MethodEfectivo, Reference: "r-1"},
		billing.Payment{Status: billing.StatusPendiente},
		testNow,
	)
	require.NoError(t, err)
	assert.Nil(t, next.Date)
	assert.Empty(t, next.Method)
	assert.Empty(t, next.Reference)
}

func TestTransition_Permitidas(t *testing.T) {
	allowed := []struct{ from, to string }{
		{billing.StatusPendiente, billing.StatusCobrada},
		{billing.StatusPendiente, billing.StatusVencida},
		{billing.StatusPendiente, billing.StatusDisputada},
		{billing.StatusVencida, billing.StatusCobrada},
		{billing.StatusCobrada, billing.StatusDisputada},
		{billing.StatusDisputada, billing.StatusPendiente},
		{"", billing.StatusCobrada}, // documento recién creado cuenta como pendiente
	}
	for _, tc := range allowed {
		_, err := billing.Transition(billing.Payment{Status: tc.from}, billing.Payment{Status: tc.to}, testNow)
		assert.NoError(t, err, "%s -> %s debería permitirse", tc.from, tc.to)
	}
}

func TestTransition_Prohibidas(t *testing.T) {
	forbidden := []struct{ from, to string }{
		{billing.StatusVencida, billing.StatusDisputada},
		{billing.StatusDisputada, billing.StatusVencida},
		{billing.StatusCobrada, billing.StatusVencida},
	}
	for _, tc := range forbidden {
		_, err := billing.Transition(billing.Payment{Status: tc.from}, billing.Payment{Status: tc.to}, testNow)
		assert.ErrorIs(t, err, domain.ErrState, "%s -> %s debería rechazarse", tc.from, tc.to)
	}
}

// TestTransition_EnumCerrada: valores fuera de la enumeración son error de
// validación, nunca se coercen en silencio.
func TestTransition_EnumCerrada(t *testing.T) {
	_, err := billing.Transition(billing.Payment{}, billing.Payment{Status: "PAGADA"}, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = billing.Transition(billing.Payment{},
		billing.Payment{Status: billing.StatusCobrada, Method: "bizum"}, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
