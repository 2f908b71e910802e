package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serranomp/fincas-api/pkg/logger"
)

// Cada evento debe llevar el nombre del servicio como campo fijo.
func TestNew_CampoServicio(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "fincas-api",
		Output:  &buf,
	})

	l.Info().Str("env", "production").Msg("iniciando aplicación")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "fincas-api", event["service"])
	assert.Equal(t, "production", event["env"])
	assert.Equal(t, "iniciando aplicación", event["message"])
}

// El nivel configurado filtra los eventos por debajo.
func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{
		Env:     "production",
		Level:   "warn",
		Service: "fincas-api",
		Output:  &buf,
	})

	l.Debug().Msg("no debe salir")
	l.Info().Msg("tampoco")
	assert.Zero(t, buf.Len(), "debug/info por debajo de warn no deben emitirse")

	l.Warn().Msg("esto sí")
	assert.Contains(t, buf.String(), "esto sí")
}

// Nivel vacío o no reconocido cae a info.
func TestNew_NivelPorDefecto(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verboso", Output: &buf})

	l.Debug().Msg("filtrado")
	assert.Zero(t, buf.Len())

	l.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

// Sin Service no se añade el campo.
func TestNew_SinServicio(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	l.Info().Msg("hola")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	_, ok := event["service"]
	assert.False(t, ok)
}
