package entity

import "time"

// User vista tipada de un documento de la colección users.
type User struct {
	ID           string    `mapstructure:"_id"`
	Username     string    `mapstructure:"username"`
	Email        string    `mapstructure:"email"`
	Role         string    `mapstructure:"role"`
	PasswordHash string    `mapstructure:"password"` // bcrypt hash, nunca plano después de persistir
	CreatedAt    time.Time `mapstructure:"createdAt"`
	UpdatedAt    time.Time `mapstructure:"updatedAt"`
}
