package entity

// AdminStats métricas globales del panel de administración (GET /admin/stats/).
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	ActiveUsers        int `json:"active_users"`
	TotalCotizaciones  int `json:"total_cotizaciones"`
	NewUsersLast30Days int `json:"new_users_last_30_days"`
}

// AdminUser fila del listado de usuarios para el administrador.
type AdminUser struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	IsActive           bool   `json:"is_active"`
	IsAdmin            bool   `json:"is_admin"`
	CreationDate       string `json:"creation_date,omitempty"`
	CotizacionesCount  int    `json:"cotizaciones_count"`
	DeactivationReason string `json:"deactivation_reason,omitempty"`
}

// Estado "Activo" o "Inactivo (motivo)".
func (u *AdminUser) Estado() string {
	if u.IsActive {
		return "Activo"
	}
	if u.DeactivationReason != "" {
		return "Inactivo (" + u.DeactivationReason + ")"
	}
	return "Inactivo"
}
