// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests de casos de uso y de handlers; RunSales serializa las
// transacciones con un mutex global y revierte lo que fn escribió si devuelve error.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

// Store datos compartidos por los repos en memoria.
type Store struct {
	txMu sync.Mutex // una transacción a la vez

	mu         sync.RWMutex
	users      map[string]*entity.User
	sales      map[string]*entity.Sale
	notifs     map[string]*entity.Notification
	notifOrder []string
	nextNumber int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:  map[string]*entity.User{},
		sales:  map[string]*entity.Sale{},
		notifs: map[string]*entity.Notification{},
	}
}

// Users repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Sales repo de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Notifications repo de notificaciones.
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }

// RunSales ejecuta fn de forma exclusiva con repos ligados a la transacción.
// Si fn devuelve error se revierten solo las filas que fn escribió; lo escrito
// fuera de la transacción se conserva. El correlativo no retrocede (como una secuencia).
func (s *Store) RunSales(ctx context.Context, fn func(repository.SaleRepository, repository.NotificationRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := newUndoLog()
	if err := fn(&SaleRepo{s: s, undo: undo}, &NotificationRepo{s: s, undo: undo}); err != nil {
		s.mu.Lock()
		undo.revert(s)
		s.mu.Unlock()
		return err
	}
	return nil
}

// undoLog guarda la versión previa de cada fila escrita dentro de RunSales.
// Un valor nil indica que la fila no existía.
type undoLog struct {
	sales  map[string]*entity.Sale
	notifs map[string]*entity.Notification
}

func newUndoLog() *undoLog {
	return &undoLog{sales: map[string]*entity.Sale{}, notifs: map[string]*entity.Notification{}}
}

// saveSale se llama con s.mu tomado, antes de escribir.
func (u *undoLog) saveSale(id string, prev *entity.Sale) {
	if u == nil {
		return
	}
	if _, seen := u.sales[id]; seen {
		return
	}
	if prev != nil {
		c := *prev
		prev = &c
	}
	u.sales[id] = prev
}

func (u *undoLog) saveNotification(id string, prev *entity.Notification) {
	if u == nil {
		return
	}
	if _, seen := u.notifs[id]; seen {
		return
	}
	if prev != nil {
		c := *prev
		prev = &c
	}
	u.notifs[id] = prev
}

// revert se llama con s.mu tomado.
func (u *undoLog) revert(s *Store) {
	for id, prev := range u.sales {
		if prev == nil {
			delete(s.sales, id)
			continue
		}
		s.sales[id] = prev
	}
	removed := map[string]bool{}
	for id, prev := range u.notifs {
		if prev == nil {
			delete(s.notifs, id)
			removed[id] = true
			continue
		}
		s.notifs[id] = prev
	}
	if len(removed) == 0 {
		return
	}
	order := s.notifOrder[:0:0]
	for _, id := range s.notifOrder {
		if !removed[id] {
			order = append(order, id)
		}
	}
	s.notifOrder = order
}

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Username, u.Username) {
			return domain.ErrUsernameAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, x := range r.s.users {
		if x.ID != u.ID && strings.EqualFold(x.Username, u.Username) {
			return domain.ErrUsernameAlreadyExists
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.User
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		if term != "" && !containsAny(term, u.Username, u.FirstName, u.LastName) {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), nil
}

func (r *UserRepo) ListActiveByRole(ctx context.Context, role string) ([]*entity.User, error) {
	active := true
	return r.List(ctx, repository.UserFilter{Role: role, Active: &active}, 0, 0)
}

// ── Sales ────────────────────────────────────────────────────────────────────

// SaleRepo implementa repository.SaleRepository. Con undo no nil escribe dentro de RunSales.
type SaleRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, v *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if _, ok := r.s.sales[v.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.nextNumber++
	v.Number = r.s.nextNumber
	r.undo.saveSale(v.ID, nil)
	c := *v
	r.s.sales[v.ID] = &c
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id), nil
}

// GetByIDForUpdate el bloqueo lo da el mutex de RunSales.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) get(id string) *entity.Sale {
	v, ok := r.s.sales[id]
	if !ok {
		return nil
	}
	c := *v
	if u, ok := r.s.users[c.AdvisorID]; ok {
		c.AdvisorName = u.FullName()
	}
	return &c
}

func (r *SaleRepo) Update(_ context.Context, v *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.sales[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.undo.saveSale(v.ID, old)
	c := *v
	c.AdvisorID, c.Number, c.CreatedAt = old.AdvisorID, old.Number, old.CreatedAt
	r.s.sales[v.ID] = &c
	return nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Sale
	for id, v := range r.s.sales {
		if f.AdvisorID != "" && v.AdvisorID != f.AdvisorID {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if term != "" && !containsAny(term, v.ClientName, v.ClientDNI, v.ClientPhone) {
			continue
		}
		day := dayOf(v.CreatedAt)
		if f.From != nil && day.Before(dayOf(*f.From)) {
			continue
		}
		if f.To != nil && day.After(dayOf(*f.To)) {
			continue
		}
		out = append(out, r.get(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Number > out[j].Number
	})
	limit := f.Limit
	if limit <= 0 {
		limit = sale.PageSize
	}
	return page(out, limit, f.Offset), len(out), nil
}

func (r *SaleRepo) CountByStatus(_ context.Context, advisorID string) (repository.StatusCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := repository.StatusCounts{}
	for _, v := range r.s.sales {
		if advisorID != "" && v.AdvisorID != advisorID {
			continue
		}
		counts[v.Status]++
	}
	return counts, nil
}

func (r *SaleRepo) CountModifiedBetween(_ context.Context, status string, start, end time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, v := range r.s.sales {
		if v.Status == status && !v.UpdatedAt.Before(start) && v.UpdatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

// ── Notifications ────────────────────────────────────────────────────────────

// NotificationRepo implementa repository.NotificationRepository.
type NotificationRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	r.undo.saveNotification(n.ID, r.s.notifs[n.ID])
	c := *n
	r.s.notifs[n.ID] = &c
	r.s.notifOrder = append(r.s.notifOrder, n.ID)
	return nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, x := range r.s.notifs {
		if x.RecipientID == recipientID && !x.Read {
			n++
		}
	}
	return n, nil
}

// ListUnread más recientes primero; a igual created_at gana la insertada después.
func (r *NotificationRepo) ListUnread(_ context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Notification
	for i := len(r.s.notifOrder) - 1; i >= 0; i-- {
		x := r.s.notifs[r.s.notifOrder[i]]
		if x.RecipientID == recipientID && !x.Read {
			out = append(out, r.withNumber(x))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, recipientID string) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.notifs[id]
	if !ok || x.RecipientID != recipientID {
		return nil, nil
	}
	r.undo.saveNotification(id, x)
	x.Read = true
	return r.withNumber(x), nil
}

func (r *NotificationRepo) MarkAllReadForSale(_ context.Context, recipientID, saleID string) (int, error) {
	return r.markWhere(func(x *entity.Notification) bool {
		return x.RecipientID == recipientID && x.SaleID == saleID
	}), nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int, error) {
	return r.markWhere(func(x *entity.Notification) bool { return x.RecipientID == recipientID }), nil
}

func (r *NotificationRepo) markWhere(match func(*entity.Notification) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, x := range r.s.notifs {
		if !x.Read && match(x) {
			r.undo.saveNotification(id, x)
			x.Read = true
			n++
		}
	}
	return n
}

func (r *NotificationRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Notification
	for _, id := range r.s.notifOrder {
		if x := r.s.notifs[id]; x.SaleID == saleID {
			out = append(out, r.withNumber(x))
		}
	}
	return out, nil
}

func (r *NotificationRepo) withNumber(x *entity.Notification) *entity.Notification {
	c := *x
	if v, ok := r.s.sales[c.SaleID]; ok {
		c.SaleNumber = v.Number
	}
	return &c
}

// ── helpers ──────────────────────────────────────────────────────────────────

func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// page limit <= 0 devuelve todo desde offset.
func page[T any](xs []T, limit, offset int) []T {
	if offset >= len(xs) {
		return nil
	}
	xs = xs[offset:]
	if limit > 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}
