package dto

// CreateSupportRequest entrada para abrir un ticket. status siempre inicia en "open".
type CreateSupportRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Subject  string `json:"subject" validate:"required,max=300"`
	Message  string `json:"message" validate:"required"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// UpdateSupportRequest campos que el administrador puede cambiar; nil = sin cambio.
type UpdateSupportRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=open in-progress resolved"`
	AdminReply *string `json:"adminReply,omitempty"`
	Priority   *string `json:"priority,omitempty"`
	Category   *string `json:"category,omitempty"`
}
