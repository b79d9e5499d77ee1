package dto

// ErrorResponse cuerpo de error HTTP. Fields solo aparece en errores de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse acuse de operaciones que no devuelven documento.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK construye un SuccessResponse exitoso.
func OK(message string) SuccessResponse {
	return SuccessResponse{Success: true, Message: message}
}
