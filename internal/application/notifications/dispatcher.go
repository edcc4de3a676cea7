package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

const (
	eventRegistered = "venta_registrada"
	eventCompleted  = "venta_completada"
)

// Dispatcher crea las notificaciones que genera cada transición.
// Se invoca después del commit de la venta; sus errores no deshacen la venta.
type Dispatcher struct {
	users  repository.UserRepository
	notifs repository.NotificationRepository
	cache  UnreadCounter
	mailer Mailer
	log    *logger.Logger
	now    func() time.Time
}

// Option configura canales opcionales del dispatcher.
type Option func(*Dispatcher)

// WithUnreadCache invalida el contador cacheado de cada destinatario.
func WithUnreadCache(c UnreadCounter) Option {
	return func(d *Dispatcher) { d.cache = c }
}

// WithMailer replica cada notificación por correo a destinatarios con email.
func WithMailer(m Mailer) Option {
	return func(d *Dispatcher) { d.mailer = m }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(users repository.UserRepository, notifs repository.NotificationRepository, log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{users: users, notifs: notifs, log: log.Named("dispatcher"), now: time.Now}
	for _, o := range opts {
		o(d)
	}
	return d
}

// SaleRegistered notifica a todos los usuarios BACK_OFFICE activos. Devuelve cuántas se crearon.
func (d *Dispatcher) SaleRegistered(ctx context.Context, s *entity.Sale, advisorName string) (int, error) {
	recipients, err := d.users.ListActiveByRole(ctx, entity.RoleBackOffice)
	if err != nil {
		metrics.NotificationChannelFailures.WithLabelValues("inbox").Inc()
		return 0, fmt.Errorf("destinatarios back office: %w", err)
	}
	msg := sale.RegisteredMessage(s.Number, advisorName)
	return d.deliver(ctx, eventRegistered, s, msg, recipients)
}

// SaleCompleted notifica únicamente al asesor dueño de la venta.
func (d *Dispatcher) SaleCompleted(ctx context.Context, s *entity.Sale) (int, error) {
	advisor, err := d.users.GetByID(ctx, s.AdvisorID)
	if err != nil {
		d.log.Warn().Err(err).Str("venta_id", s.ID).Msg("no se pudo cargar el asesor; se notifica sin correo")
	}
	if advisor == nil {
		advisor = &entity.User{ID: s.AdvisorID}
	}
	msg := sale.CompletedMessage(s.Number, s.ScheduledInstallDate)
	return d.deliver(ctx, eventCompleted, s, msg, []*entity.User{advisor})
}

func (d *Dispatcher) deliver(ctx context.Context, event string, s *entity.Sale, msg string, recipients []*entity.User) (int, error) {
	var (
		created   int
		errs      []error
		delivered []string
	)
	for _, u := range recipients {
		n := &entity.Notification{
			SaleID:      s.ID,
			SaleNumber:  s.Number,
			RecipientID: u.ID,
			Message:     msg,
			CreatedAt:   d.now(),
		}
		if err := d.notifs.Create(ctx, n); err != nil {
			metrics.NotificationChannelFailures.WithLabelValues("inbox").Inc()
			errs = append(errs, fmt.Errorf("notificar a %s: %w", u.ID, err))
			continue
		}
		created++
		delivered = append(delivered, u.ID)
		d.mirrorEmail(ctx, u, s, msg)
	}
	metrics.NotificationsCreated.WithLabelValues(event).Add(float64(created))

	if d.cache != nil && len(delivered) > 0 {
		if err := d.cache.Invalidate(ctx, delivered...); err != nil {
			metrics.NotificationChannelFailures.WithLabelValues("cache").Inc()
			d.log.Warn().Err(err).Msg("invalidar contador de no leídas")
		}
	}

	d.log.Info().
		Str("event", event).
		Str("venta_id", s.ID).
		Int("creadas", created).
		Int("destinatarios", len(recipients)).
		Msg("notificaciones despachadas")

	return created, errors.Join(errs...)
}

func (d *Dispatcher) mirrorEmail(ctx context.Context, u *entity.User, s *entity.Sale, msg string) {
	if d.mailer == nil || u.Email == "" {
		return
	}
	subject := fmt.Sprintf("Venta #%d", s.Number)
	if err := d.mailer.Send(ctx, u.Email, subject, msg); err != nil {
		metrics.NotificationChannelFailures.WithLabelValues("email").Inc()
		d.log.Warn().Err(err).Str("usuario_id", u.ID).Msg("correo de notificación no enviado")
	}
}
