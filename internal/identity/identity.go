package identity

import (
	"github.com/google/uuid"
)

// Role константы ролей пользователей
const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleClient:       {},
	RoleProfessional: {},
	RoleAdmin:        {},
}

// Actor описывает действующего пользователя операции.
// Заполняется на границе приложения (HTTP middleware) данными от
// внешнего провайдера идентификации и передаётся в сервисы явно.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

// IsAdmin сообщает, выполняется ли операция от имени команды поддержки.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsZero сообщает, что актор не был установлен.
func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}
