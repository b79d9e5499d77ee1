package dto

import "strings"

// RegisterRequest entrada para registro. El password llega en texto y se hashea en el caso de uso.
// El rol siempre inicia en "user"; solo el CRUD de usuarios puede asignar "admin".
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse confirmación de registro (sin token).
type RegisterResponse struct {
	Message string `json:"message"`
}

// LoginRequest acepta username o email como identificador.
type LoginRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Identifier string `json:"identifier"`
	Password   string `json:"password" validate:"required"`
}

// Login devuelve el identificador efectivo: identifier, luego username, luego email.
func (r LoginRequest) Login() string {
	for _, s := range []string{r.Identifier, r.Username, r.Email} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// UserProfile proyección pública de un usuario; nunca incluye el hash.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResponse salida de login. Token solo cuando hay JWT_SECRET.
type LoginResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
	Token   string      `json:"token,omitempty"`
}
