package dto

// ErrorResponse formato uniforme de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IDResponse respuesta mínima con el identificador creado.
type IDResponse struct {
	ID string `json:"id"`
}
