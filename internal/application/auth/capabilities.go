package auth

import (
	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// Asegura que RoleCapabilities implementa el puerto del libro.
var _ ledger.Capabilities = (*RoleCapabilities)(nil)

// RoleCapabilities resuelve permisos a partir del rol del token JWT.
// Es la única pieza que conoce la lógica de roles; el núcleo del libro solo
// consulta CanConfirm/CanCancel/CanDeletePermanently antes de mutar.
type RoleCapabilities struct{}

// NewRoleCapabilities construye el verificador.
func NewRoleCapabilities() *RoleCapabilities {
	return &RoleCapabilities{}
}

// CanConfirm: admin y bodeguero confirman; vendedor no recibe mercancía.
// Siempre dentro de la misma empresa.
func (RoleCapabilities) CanConfirm(actor ledger.Actor, m *entity.Movement) bool {
	if m.CompanyID != actor.CompanyID {
		return false
	}
	return actor.Role == entity.RoleAdmin || actor.Role == entity.RoleBodeguero
}

// CanCancel: admin y bodeguero, o quien creó el movimiento.
func (RoleCapabilities) CanCancel(actor ledger.Actor, m *entity.Movement) bool {
	if m.CompanyID != actor.CompanyID {
		return false
	}
	if actor.Role == entity.RoleAdmin || actor.Role == entity.RoleBodeguero {
		return true
	}
	return m.CreatedBy == actor.UserID
}

// CanDeletePermanently: solo admin.
func (RoleCapabilities) CanDeletePermanently(actor ledger.Actor) bool {
	return actor.Role == entity.RoleAdmin
}
