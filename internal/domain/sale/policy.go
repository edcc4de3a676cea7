package sale

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// Operation operación sujeta a control de acceso por rol.
type Operation string

const (
	OpRegisterSale            Operation = "REGISTRAR_VENTA"
	OpCompleteBackOffice      Operation = "COMPLETAR_BACK_OFFICE"
	OpEditAdvisorFields       Operation = "EDITAR_VENTA_ASESOR"
	OpListOwnSales            Operation = "LISTAR_MIS_VENTAS"
	OpListPendingSales        Operation = "LISTAR_PENDIENTES_BO"
	OpViewPendingSale         Operation = "VER_VENTA_BACK_OFFICE"
	OpDownloadSheet           Operation = "DESCARGAR_FICHA"
	OpViewAdvisorDashboard    Operation = "DASHBOARD_ASESOR"
	OpViewBackOfficeDashboard Operation = "DASHBOARD_BACK_OFFICE"
	OpManageUsers             Operation = "GESTIONAR_USUARIOS"
)

// permissions tabla rol → operaciones. Es la única fuente de verdad de autorización:
// la usan los casos de uso y, derivada, el middleware HTTP.
var permissions = map[Operation][]string{
	OpRegisterSale:            {entity.RoleAsesor},
	OpCompleteBackOffice:      {entity.RoleBackOffice},
	OpEditAdvisorFields:       {entity.RoleAsesor},
	OpListOwnSales:            {entity.RoleAsesor},
	OpListPendingSales:        {entity.RoleBackOffice},
	OpViewPendingSale:         {entity.RoleBackOffice},
	OpDownloadSheet:           {entity.RoleAsesor, entity.RoleBackOffice, entity.RoleSupervisor, entity.RoleDueno},
	OpViewAdvisorDashboard:    {entity.RoleAsesor},
	OpViewBackOfficeDashboard: {entity.RoleBackOffice},
	OpManageUsers:             {entity.RoleDueno, entity.RoleSupervisor},
}

// Allowed predicado puro (rol, operación) → permitido.
func Allowed(role string, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor roles habilitados para la operación (vacío si la operación no existe).
func RolesFor(op Operation) []string {
	roles := permissions[op]
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
