package dto

// AdvisorStats conteos del asesor por estado.
type AdvisorStats struct {
	Total                 int `json:"total"`
	PendientesBO          int `json:"pendientes_bo"`
	PendientesInstalacion int `json:"pendientes_instalacion"`
	Instaladas            int `json:"instaladas"`
	Rechazadas            int `json:"rechazadas"`
}

// AdvisorDashboardDTO respuesta de GET /api/dashboard para ASESOR.
type AdvisorDashboardDTO struct {
	Role          string                 `json:"role"`
	Stats         AdvisorStats           `json:"stats"`
	RecentSales   []SaleResponse         `json:"ventas_recientes"`
	Notifications []NotificationResponse `json:"notificaciones"`
}

// BackOfficeStats indicadores de back office.
type BackOfficeStats struct {
	Pendientes      int `json:"pendientes"`
	CompletadasHoy  int `json:"completadas_hoy"`
	TotalProcesadas int `json:"total_procesadas"`
}

// BackOfficeDashboardDTO respuesta de GET /api/dashboard para BACK_OFFICE.
type BackOfficeDashboardDTO struct {
	Role          string                 `json:"role"`
	Stats         BackOfficeStats        `json:"stats"`
	RecentPending []SaleResponse         `json:"pendientes_recientes"`
	Notifications []NotificationResponse `json:"notificaciones"`
}

// GeneralDashboardDTO resumen para el resto de roles: conteo global por estado.
type GeneralDashboardDTO struct {
	Role     string         `json:"role"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"por_estado"`
}
