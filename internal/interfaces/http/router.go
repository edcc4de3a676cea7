package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/notifications"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/application/ventas"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SaleUC      *ventas.SaleUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Inbox       *notifications.Inbox
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Named("http")
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.UserUC, log))

	protected.Get("/auth/me", authHandler.Me)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard", dashboardHandler.Get)

	// Ventas del asesor
	ventasGroup := protected.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.SaleUC, log)
	ventasGroup.Post("/", RequirePermission(sale.OpRegisterSale), ventaHandler.Create)
	ventasGroup.Get("/", RequirePermission(sale.OpListOwnSales), ventaHandler.List)
	ventasGroup.Get("/:id/ficha", RequirePermission(sale.OpDownloadSheet), ventaHandler.Sheet)
	ventasGroup.Get("/:id", RequirePermission(sale.OpListOwnSales), ventaHandler.GetByID)
	ventasGroup.Put("/:id", RequirePermission(sale.OpEditAdvisorFields), ventaHandler.Update)

	// Back office
	bo := protected.Group("/backoffice")
	boHandler := NewBackOfficeHandler(deps.SaleUC, log)
	bo.Get("/pendientes", RequirePermission(sale.OpListPendingSales), boHandler.Pending)
	bo.Get("/ventas/:id", RequirePermission(sale.OpViewPendingSale), boHandler.GetByID)
	bo.Post("/ventas/:id/completar", RequirePermission(sale.OpCompleteBackOffice), boHandler.Complete)

	// Notificaciones (cualquier rol autenticado, siempre las propias)
	notif := protected.Group("/notificaciones")
	notifHandler := NewNotificationHandler(deps.Inbox, log)
	notif.Get("/", notifHandler.Summary)
	notif.Post("/leidas", notifHandler.MarkAll)
	notif.Post("/ventas/:id/leidas", notifHandler.MarkAllForSale)
	notif.Post("/:id/leida", notifHandler.MarkRead)

	// Usuarios (dueño y supervisor)
	users := protected.Group("/usuarios", RequirePermission(sale.OpManageUsers))
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Post("/:id/deshabilitar", userHandler.Disable)
}
