package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSaleRequest campos que registra el asesor. El estado nunca viene del cliente.
type RegisterSaleRequest struct {
	Modality       string          `json:"modalidad" validate:"required,oneof=CALL_CENTER CAMPO"`
	Shift          string          `json:"turno" validate:"required,oneof=MAÑANA TARDE"`
	ClientName     string          `json:"cliente_nombre" validate:"required,max=200"`
	ClientDNI      string          `json:"cliente_dni" validate:"required,len=8,numeric"`
	ClientPhone    string          `json:"cliente_telefono" validate:"required,max=20"`
	ClientAddress  string          `json:"cliente_direccion" validate:"omitempty,max=500"`
	ClientEmail    string          `json:"cliente_email" validate:"omitempty,email"`
	ClientGender   string          `json:"cliente_genero" validate:"required,oneof=M F"`
	ProductService string          `json:"producto_servicio" validate:"required,max=200"`
	Amount         decimal.Decimal `json:"monto" validate:"required,gt=0"`
	Notes          string          `json:"observaciones" validate:"omitempty,max=2000"`
}

// UpdateSaleRequest edición de los campos del asesor (mismo contrato que el registro).
type UpdateSaleRequest = RegisterSaleRequest

// CompleteBackOfficeRequest campos que completa back office.
type CompleteBackOfficeRequest struct {
	SEC                  string `json:"sec" validate:"required,max=100"`
	SOT                  string `json:"sot" validate:"required,max=100"`
	ScheduledInstallDate string `json:"fecha_programacion_instalacion" validate:"required,datetime=2006-01-02"`
}

// SaleListQuery filtros de los listados de ventas. Page empieza en 1.
type SaleListQuery struct {
	Status    string `query:"estado"`
	From      string `query:"fecha_desde" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"fecha_hasta" validate:"omitempty,datetime=2006-01-02"`
	Search    string `query:"buscar" validate:"omitempty,max=100"`
	AdvisorID string `query:"asesor" validate:"omitempty,uuid"`
	Page      int    `query:"page" validate:"min=0"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID                   string          `json:"id"`
	Number               int64           `json:"numero"`
	AdvisorID            string          `json:"asesor_id"`
	AdvisorName          string          `json:"asesor_nombre"`
	Modality             string          `json:"modalidad"`
	Shift                string          `json:"turno"`
	ClientName           string          `json:"cliente_nombre"`
	ClientDNI            string          `json:"cliente_dni"`
	ClientPhone          string          `json:"cliente_telefono"`
	ClientAddress        string          `json:"cliente_direccion"`
	ClientEmail          string          `json:"cliente_email,omitempty"`
	ClientGender         string          `json:"cliente_genero"`
	ProductService       string          `json:"producto_servicio"`
	Amount               decimal.Decimal `json:"monto"`
	Notes                string          `json:"observaciones"`
	SEC                  string          `json:"sec,omitempty"`
	SOT                  string          `json:"sot,omitempty"`
	ScheduledInstallDate *string         `json:"fecha_programacion_instalacion"`
	ActualInstallDate    *string         `json:"fecha_real_instalacion"`
	Status               string          `json:"estado"`
	StatusLabel          string          `json:"estado_display"`
	Closed               bool            `json:"cerrada"` // estado final, sin más transiciones
	RejectionReason      string          `json:"motivo_rechazo,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	ModifiedBy           *string         `json:"modificado_por"`
}

// SaleListResponse página de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
