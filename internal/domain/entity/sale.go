package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. El orden refleja el flujo: registro → back office → audio → instalación.
// RECHAZADA es un estado de fallo alcanzable desde cualquier estado no terminal.
const (
	SaleStatusPendienteBO          = "PENDIENTE_BO"
	SaleStatusPendienteAudio       = "PENDIENTE_AUDIO"
	SaleStatusAudioRevision        = "AUDIO_REVISION"
	SaleStatusAudioNoConforme      = "AUDIO_NO_CONFORME"
	SaleStatusPendienteInstalacion = "PENDIENTE_INSTALACION"
	SaleStatusEnEjecucion          = "EN_EJECUCION"
	SaleStatusInstalada            = "INSTALADA"
	SaleStatusRechazada            = "RECHAZADA"
)

// Canal de la venta.
const (
	ModalityCallCenter = "CALL_CENTER"
	ModalityCampo      = "CAMPO"
)

// Turno de la venta.
const (
	ShiftManana = "MAÑANA"
	ShiftTarde  = "TARDE"
)

// Género del cliente.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Sale representa una venta registrada por un asesor.
type Sale struct {
	ID     string
	Number int64 // correlativo asignado por la base de datos, se muestra como #N

	// Datos registrados por el asesor
	AdvisorID   string
	AdvisorName string // solo lectura (join con users)
	Modality    string
	Shift       string

	ClientName    string
	ClientDNI     string
	ClientPhone   string
	ClientAddress string
	ClientEmail   string
	ClientGender  string

	ProductService string
	Amount         decimal.Decimal
	Notes          string

	// Datos completados por Back Office
	SEC                  string
	SOT                  string
	ScheduledInstallDate *time.Time
	ActualInstallDate    *time.Time

	Status          string
	RejectionReason string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ModifiedBy *string // nil si el usuario fue eliminado
}
