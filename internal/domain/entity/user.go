package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleAgronomo = "agronomo"
	RoleOperario = "operario"
)

// User representa un usuario de la finca (administrador, agrónomo u operario
// de campo). Name es el "responsable" por defecto en los registros diarios.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, agronomo, operario
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
