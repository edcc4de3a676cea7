// Package sale contiene las reglas puras del ciclo de vida de una venta:
// catálogo de estados, guardas de transición, política de permisos por rol
// y los mensajes que genera cada transición. No tiene dependencias de infraestructura.
package sale

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// PageSize tamaño fijo de página para los listados de ventas.
const PageSize = 20

var statuses = []string{
	entity.SaleStatusPendienteBO,
	entity.SaleStatusPendienteAudio,
	entity.SaleStatusAudioRevision,
	entity.SaleStatusAudioNoConforme,
	entity.SaleStatusPendienteInstalacion,
	entity.SaleStatusEnEjecucion,
	entity.SaleStatusInstalada,
	entity.SaleStatusRechazada,
}

var statusLabels = map[string]string{
	entity.SaleStatusPendienteBO:          "Pendiente Back Office",
	entity.SaleStatusPendienteAudio:       "Pendiente Audio",
	entity.SaleStatusAudioRevision:        "Audio en Revisión",
	entity.SaleStatusAudioNoConforme:      "Audio No Conforme",
	entity.SaleStatusPendienteInstalacion: "Pendiente Instalación",
	entity.SaleStatusEnEjecucion:          "En Ejecución",
	entity.SaleStatusInstalada:            "Instalada",
	entity.SaleStatusRechazada:            "Rechazada",
}

// Statuses devuelve el catálogo de estados en el orden del flujo.
func Statuses() []string {
	out := make([]string, len(statuses))
	copy(out, statuses)
	return out
}

// IsValidStatus indica si s pertenece al catálogo.
func IsValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel etiqueta legible del estado; devuelve s si no está en el catálogo.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(s string) bool {
	return s == entity.SaleStatusInstalada || s == entity.SaleStatusRechazada
}

// CanCompleteBackOffice back office solo completa ventas en PENDIENTE_BO.
func CanCompleteBackOffice(status string) bool {
	return status == entity.SaleStatusPendienteBO
}

// CanAdvisorEdit el asesor solo modifica datos de cliente/producto antes de la revisión de audio.
func CanAdvisorEdit(status string) bool {
	return status == entity.SaleStatusPendienteBO || status == entity.SaleStatusPendienteAudio
}

// StatusAfterBackOffice estado al que pasa una venta completada por back office.
const StatusAfterBackOffice = entity.SaleStatusPendienteAudio
