package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT v.id, v.numero, v.asesor_id,
	       COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username),
	       v.modalidad, v.turno,
	       v.cliente_nombre, v.cliente_dni, v.cliente_telefono, v.cliente_direccion, v.cliente_email, v.cliente_genero,
	       v.producto_servicio, v.monto, v.observaciones,
	       v.sec, v.sot, v.fecha_programacion_instalacion, v.fecha_real_instalacion,
	       v.estado, v.motivo_rechazo, v.created_at, v.updated_at, v.modificado_por
	FROM ventas v
	JOIN users u ON u.id = v.asesor_id`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta; el número correlativo lo asigna la secuencia de la tabla.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ventas (id, asesor_id, modalidad, turno,
			cliente_nombre, cliente_dni, cliente_telefono, cliente_direccion, cliente_email, cliente_genero,
			producto_servicio, monto, observaciones, estado, created_at, updated_at, modificado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING numero`
	err := r.q.QueryRow(ctx, query,
		s.ID, s.AdvisorID, s.Modality, s.Shift,
		s.ClientName, s.ClientDNI, s.ClientPhone, s.ClientAddress, nullIfEmpty(s.ClientEmail), s.ClientGender,
		s.ProductService, s.Amount, s.Notes, s.Status, s.CreatedAt, s.UpdatedAt, s.ModifiedBy,
	).Scan(&s.Number)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE v.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return s, nil
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila de la venta hasta el fin de la transacción.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE v.id = $1 FOR UPDATE OF v`, id))
	if err != nil {
		return nil, fmt.Errorf("get venta for update: %w", err)
	}
	return s, nil
}

// Update reescribe los campos mutables. asesor_id, numero y created_at no cambian.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE ventas
		SET modalidad = $2, turno = $3,
		    cliente_nombre = $4, cliente_dni = $5, cliente_telefono = $6, cliente_direccion = $7,
		    cliente_email = $8, cliente_genero = $9,
		    producto_servicio = $10, monto = $11, observaciones = $12,
		    sec = $13, sot = $14, fecha_programacion_instalacion = $15, fecha_real_instalacion = $16,
		    estado = $17, motivo_rechazo = $18, updated_at = $19, modificado_por = $20
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Modality, s.Shift,
		s.ClientName, s.ClientDNI, s.ClientPhone, s.ClientAddress,
		nullIfEmpty(s.ClientEmail), s.ClientGender,
		s.ProductService, s.Amount, s.Notes,
		nullIfEmpty(s.SEC), nullIfEmpty(s.SOT), s.ScheduledInstallDate, s.ActualInstallDate,
		s.Status, nullIfEmpty(s.RejectionReason), s.UpdatedAt, s.ModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("update venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List aplica los filtros y devuelve la página y el total.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	where, args := saleWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ventas v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ventas: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = sale.PageSize
	}
	args = append(args, limit, f.Offset)
	query := saleSelect + where +
		fmt.Sprintf(` ORDER BY v.created_at DESC, v.numero DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func saleWhere(f repository.SaleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AdvisorID != "" {
		args = append(args, f.AdvisorID)
		conds = append(conds, fmt.Sprintf("v.asesor_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("v.estado = $%d", len(args)))
	}
	if strings.TrimSpace(f.Search) != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(v.cliente_nombre ILIKE $%d OR v.cliente_dni ILIKE $%d OR v.cliente_telefono ILIKE $%d)", n, n, n))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("v.created_at::date >= $%d::date", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("v.created_at::date <= $%d::date", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanSale devuelve (nil, nil) si no hay fila.
func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s                         entity.Sale
		email, sec, sot, rejected *string
	)
	err := row.Scan(
		&s.ID, &s.Number, &s.AdvisorID, &s.AdvisorName, &s.Modality, &s.Shift,
		&s.ClientName, &s.ClientDNI, &s.ClientPhone, &s.ClientAddress, &email, &s.ClientGender,
		&s.ProductService, &s.Amount, &s.Notes,
		&sec, &sot, &s.ScheduledInstallDate, &s.ActualInstallDate,
		&s.Status, &rejected, &s.CreatedAt, &s.UpdatedAt, &s.ModifiedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.ClientEmail = emptyIfNull(email)
	s.SEC = emptyIfNull(sec)
	s.SOT = emptyIfNull(sot)
	s.RejectionReason = emptyIfNull(rejected)
	return &s, nil
}
