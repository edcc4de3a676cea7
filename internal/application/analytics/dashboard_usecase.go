// Package analytics arma los dashboards por rol (asesor, back office y general).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ventas"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

const (
	advisorRecentSales   = 5
	backOfficeRecentSale = 10
	dashboardNotifs      = 5
)

// RecentNotifications lectura de las no leídas recientes del actor.
type RecentNotifications interface {
	Recent(ctx context.Context, actor entity.Actor, limit int) ([]dto.NotificationResponse, error)
}

// DashboardUseCase construye el dashboard que corresponde al rol del actor.
type DashboardUseCase struct {
	sales repository.SaleRepository
	inbox RecentNotifications
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(sales repository.SaleRepository, inbox RecentNotifications) *DashboardUseCase {
	return &DashboardUseCase{sales: sales, inbox: inbox, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// ForActor devuelve el dashboard según el rol: asesor, back office o el resumen general.
func (uc *DashboardUseCase) ForActor(ctx context.Context, actor entity.Actor) (any, error) {
	switch {
	case sale.Allowed(actor.Role, sale.OpViewAdvisorDashboard):
		return uc.Advisor(ctx, actor)
	case sale.Allowed(actor.Role, sale.OpViewBackOfficeDashboard):
		return uc.BackOffice(ctx, actor)
	case entity.IsValidRole(actor.Role):
		return uc.General(ctx, actor)
	default:
		return nil, domain.ErrUnauthorized
	}
}

type countsResult struct {
	counts repository.StatusCounts
	err    error
}

type salesResult struct {
	items []*entity.Sale
	err   error
}

type notifsResult struct {
	items []dto.NotificationResponse
	err   error
}

// Advisor conteos propios por estado, últimas 5 ventas y 5 notificaciones no leídas.
//
// Tres consultas en paralelo:
//  1. CountByStatus(asesor)
//  2. List(asesor, 5)
//  3. Recent(5)
func (uc *DashboardUseCase) Advisor(ctx context.Context, actor entity.Actor) (*dto.AdvisorDashboardDTO, error) {
	if !sale.Allowed(actor.Role, sale.OpViewAdvisorDashboard) {
		return nil, domain.ErrUnauthorized
	}

	countsCh := make(chan countsResult, 1)
	salesCh := make(chan salesResult, 1)
	notifsCh := make(chan notifsResult, 1)

	go func() {
		c, err := uc.sales.CountByStatus(ctx, actor.UserID)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		items, _, err := uc.sales.List(ctx, repository.SaleFilter{AdvisorID: actor.UserID, Limit: advisorRecentSales})
		salesCh <- salesResult{items, err}
	}()
	go func() {
		n, err := uc.inbox.Recent(ctx, actor, dashboardNotifs)
		notifsCh <- notifsResult{n, err}
	}()

	counts := <-countsCh
	recent := <-salesCh
	notifs := <-notifsCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard asesor: conteos: %w", counts.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard asesor: ventas recientes: %w", recent.err)
	}
	if notifs.err != nil {
		return nil, fmt.Errorf("dashboard asesor: notificaciones: %w", notifs.err)
	}

	c := counts.counts
	return &dto.AdvisorDashboardDTO{
		Role: actor.Role,
		Stats: dto.AdvisorStats{
			Total:                 c.Total(),
			PendientesBO:          c[entity.SaleStatusPendienteBO],
			PendientesInstalacion: c[entity.SaleStatusPendienteInstalacion],
			Instaladas:            c[entity.SaleStatusInstalada],
			Rechazadas:            c[entity.SaleStatusRechazada],
		},
		RecentSales:   ventas.ToSaleResponses(recent.items),
		Notifications: notifs.items,
	}, nil
}

// BackOffice pendientes, completadas hoy (pasaron a PENDIENTE_AUDIO hoy), total procesadas
// (estado distinto de PENDIENTE_BO), 10 pendientes más recientes y 5 notificaciones.
func (uc *DashboardUseCase) BackOffice(ctx context.Context, actor entity.Actor) (*dto.BackOfficeDashboardDTO, error) {
	if !sale.Allowed(actor.Role, sale.OpViewBackOfficeDashboard) {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)

	type intResult struct {
		n   int
		err error
	}
	countsCh := make(chan countsResult, 1)
	todayCh := make(chan intResult, 1)
	pendingCh := make(chan salesResult, 1)
	notifsCh := make(chan notifsResult, 1)

	go func() {
		c, err := uc.sales.CountByStatus(ctx, "")
		countsCh <- countsResult{c, err}
	}()
	go func() {
		n, err := uc.sales.CountModifiedBetween(ctx, entity.SaleStatusPendienteAudio, todayStart, todayEnd)
		todayCh <- intResult{n, err}
	}()
	go func() {
		items, _, err := uc.sales.List(ctx, repository.SaleFilter{Status: entity.SaleStatusPendienteBO, Limit: backOfficeRecentSale})
		pendingCh <- salesResult{items, err}
	}()
	go func() {
		n, err := uc.inbox.Recent(ctx, actor, dashboardNotifs)
		notifsCh <- notifsResult{n, err}
	}()

	counts := <-countsCh
	today := <-todayCh
	pending := <-pendingCh
	notifs := <-notifsCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard back office: conteos: %w", counts.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard back office: completadas hoy: %w", today.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard back office: pendientes: %w", pending.err)
	}
	if notifs.err != nil {
		return nil, fmt.Errorf("dashboard back office: notificaciones: %w", notifs.err)
	}

	pendientes := counts.counts[entity.SaleStatusPendienteBO]
	return &dto.BackOfficeDashboardDTO{
		Role: actor.Role,
		Stats: dto.BackOfficeStats{
			Pendientes:      pendientes,
			CompletadasHoy:  today.n,
			TotalProcesadas: counts.counts.Total() - pendientes,
		},
		RecentPending: ventas.ToSaleResponses(pending.items),
		Notifications: notifs.items,
	}, nil
}

// General conteo global por estado (supervisión, seguimiento, dueño).
func (uc *DashboardUseCase) General(ctx context.Context, actor entity.Actor) (*dto.GeneralDashboardDTO, error) {
	counts, err := uc.sales.CountByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("dashboard general: %w", err)
	}
	byStatus := make(map[string]int, len(sale.Statuses()))
	for _, s := range sale.Statuses() {
		byStatus[s] = counts[s]
	}
	return &dto.GeneralDashboardDTO{Role: actor.Role, Total: counts.Total(), ByStatus: byStatus}, nil
}
