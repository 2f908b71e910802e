package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// NextNumber calcula el siguiente consecutivo candidato de una familia a
// partir del último número emitido con ese prefijo. El formato es
// PREFIX-%04d: relleno a 4 dígitos que crece sin truncar pasado 9999.
//
// Esta función solo calcula el candidato; la asignación atómica la garantiza
// el orquestador ejecutando lectura-cálculo-inserción bajo el advisory lock
// por familia de la capa de persistencia.
func NextNumber(last, prefix string) string {
	n := 0
	if suffix, ok := strings.CutPrefix(last, prefix+"-"); ok {
		if parsed, err := strconv.Atoi(suffix); err == nil && parsed > 0 {
			n = parsed
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, n+1)
}
