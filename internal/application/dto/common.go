package dto

// ErrorResponse cuerpo estable de error HTTP: un código corto para que los
// clientes ramifiquen y un mensaje legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
