package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
)

const saleID = "7d1c6a3e-2f43-4b4e-9f5e-0a1b2c3d4e5f"

var errQuery = errors.New("consulta cortada")

type call struct {
	sql  string
	args []any
}

// recordingQuerier registra cada sentencia y responde con valores fijos.
type recordingQuerier struct {
	calls []call
	row   fakeRow
	tag   pgconn.CommandTag
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls = append(q.calls, call{sql, args})
	return q.tag, nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.calls = append(q.calls, call{sql, args})
	return nil, errQuery
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, call{sql, args})
	return q.row
}

// fakeRow devuelve err o copia vals en destinos *int / *int64.
type fakeRow struct {
	err  error
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.vals {
		switch d := dest[i].(type) {
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		}
	}
	return nil
}

func TestSaleRepo_GetByIDForUpdateBloqueaLaFila(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	repo := postgres.NewSaleRepository(q)

	s, err := repo.GetByIDForUpdate(context.Background(), saleID)
	require.NoError(t, err)
	assert.Nil(t, s, "sin fila devuelve (nil, nil)")

	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].sql, "WHERE v.id = $1 FOR UPDATE OF v")
	assert.Equal(t, []any{saleID}, q.calls[0].args)
}

func TestSaleRepo_GetByIDSinFilaNiUUID(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	repo := postgres.NewSaleRepository(q)
	ctx := context.Background()

	s, err := repo.GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NotContains(t, q.calls[0].sql, "FOR UPDATE")

	s, err = repo.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, s)
	s, err = repo.GetByIDForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Len(t, q.calls, 1, "un ID que no es UUID no llega a la base")
}

func TestSaleRepo_GetByIDPropagaOtrosErrores(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{err: errQuery}}
	_, err := postgres.NewSaleRepository(q).GetByID(context.Background(), saleID)
	assert.ErrorIs(t, err, errQuery)
}

func TestSaleRepo_ListNumeraPlaceholders(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{vals: []any{42}}}
	repo := postgres.NewSaleRepository(q)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	_, _, err := repo.List(context.Background(), repository.SaleFilter{
		AdvisorID: "asesor",
		Status:    entity.SaleStatusPendienteBO,
		Search:    " 50%_x ",
		From:      &from,
		To:        &to,
		Offset:    40,
	})
	require.ErrorIs(t, err, errQuery)
	require.Len(t, q.calls, 2)

	count := q.calls[0]
	assert.Contains(t, count.sql, "SELECT COUNT(*) FROM ventas v WHERE v.asesor_id = $1 AND v.estado = $2")
	assert.Contains(t, count.sql, "(v.cliente_nombre ILIKE $3 OR v.cliente_dni ILIKE $3 OR v.cliente_telefono ILIKE $3)")
	assert.Contains(t, count.sql, "v.created_at::date >= $4::date AND v.created_at::date <= $5::date")
	assert.Equal(t, []any{"asesor", entity.SaleStatusPendienteBO, `%50\%\_x%`, from, to}, count.args)

	page := q.calls[1]
	assert.Contains(t, page.sql, "ORDER BY v.created_at DESC, v.numero DESC LIMIT $6 OFFSET $7")
	assert.Equal(t, []any{"asesor", entity.SaleStatusPendienteBO, `%50\%\_x%`, from, to, 20, 40}, page.args,
		"límite por defecto y offset al final")
}

func TestSaleRepo_ListSinFiltros(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{vals: []any{0}}}
	_, _, err := postgres.NewSaleRepository(q).List(context.Background(), repository.SaleFilter{Limit: 5})
	require.ErrorIs(t, err, errQuery)

	assert.NotContains(t, q.calls[0].sql, "WHERE")
	assert.Empty(t, q.calls[0].args)
	assert.Contains(t, q.calls[1].sql, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{5, 0}, q.calls[1].args)
}

func TestSaleRepo_CreateYUpdate(t *testing.T) {
	ctx := context.Background()

	q := &recordingQuerier{row: fakeRow{vals: []any{int64(7)}}}
	s := &entity.Sale{AdvisorID: "asesor", Status: entity.SaleStatusPendienteBO}
	require.NoError(t, postgres.NewSaleRepository(q).Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, int64(7), s.Number)
	assert.Contains(t, q.calls[0].sql, "RETURNING numero")

	q = &recordingQuerier{row: fakeRow{err: &pgconn.PgError{Code: "23505"}}}
	err := postgres.NewSaleRepository(q).Create(ctx, &entity.Sale{})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	q = &recordingQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	err = postgres.NewSaleRepository(q).Update(ctx, &entity.Sale{ID: saleID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	q = &recordingQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
	require.NoError(t, postgres.NewSaleRepository(q).Update(ctx, &entity.Sale{ID: saleID}))
	assert.Equal(t, saleID, q.calls[0].args[0])
}

func TestRepos_IDNoUUIDNoConsulta(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{row: fakeRow{err: errQuery}, tag: pgconn.NewCommandTag("UPDATE 3")}

	n, err := postgres.NewNotificationRepository(q).MarkAllReadForSale(ctx, "usuario", "abc")
	require.NoError(t, err)
	assert.Zero(t, n)

	notif, err := postgres.NewNotificationRepository(q).MarkRead(ctx, "abc", "usuario")
	require.NoError(t, err)
	assert.Nil(t, notif)

	list, err := postgres.NewNotificationRepository(q).ListBySale(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, list)

	u, err := postgres.NewUserRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.Empty(t, q.calls)

	n, err = postgres.NewNotificationRepository(q).MarkAllReadForSale(ctx, "usuario", saleID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []any{"usuario", saleID}, q.calls[0].args)
}

func TestUserRepo_GetByIDSinFila(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	u, err := postgres.NewUserRepository(q).GetByID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Nil(t, u)
	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].sql, "WHERE id = $1")
}
