package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow simula uma linha de resultado com o id gerado
type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.id
	}
	return nil
}

// fakeTx simula uma transação pgx; métodos não stubados vêm da interface
// embutida e não são chamados pelo repositório
type fakeTx struct {
	pgx.Tx

	orderID     int64
	queryRowErr error
	failExecAt  int // 1-based; 0 nunca falha
	commitErr   error

	execCalls  int
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return fakeRow{id: t.orderID, err: t.queryRowErr}
}

func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	t.execCalls++
	if t.failExecAt != 0 && t.execCalls == t.failExecAt {
		return pgconn.CommandTag{}, errors.New("insert failed")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// fakeDatabase simula o pool de conexões
type fakeDatabase struct {
	tx       *fakeTx
	beginErr error
	execErr  error
	pingErr  error
}

func (d *fakeDatabase) Begin(_ context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

func (d *fakeDatabase) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), d.execErr
}

func (d *fakeDatabase) Ping(_ context.Context) error {
	return d.pingErr
}

func sampleOrderAndLines() (*Order, []OrderLine) {
	lines := []CartLine{
		{Sku: "burger", Name: "Burger", UnitPrice: 1000, Quantity: 1},
		{Sku: "fries", Name: "Fries", UnitPrice: 800, Quantity: 1},
		{Sku: "soda", Name: "Soda", UnitPrice: 300, Quantity: 2},
	}
	totals := ComputeTotals(lines, 1300)
	order := NewOrder(totals, 1300)
	order.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return order, BuildOrderLines(lines)
}

func TestCreateOrder_Success(t *testing.T) {
	// Arrange
	tx := &fakeTx{orderID: 42}
	repo := NewPostgresOrderRepository(&fakeDatabase{tx: tx})
	order, lines := sampleOrderAndLines()

	// Act
	orderID, err := repo.CreateOrder(context.Background(), order, lines)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)
	assert.Equal(t, 3, tx.execCalls, "one insert per order line")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestCreateOrder_LineInsertFailureRollsBack(t *testing.T) {
	// Arrange: a segunda de três linhas falha
	tx := &fakeTx{orderID: 42, failExecAt: 2}
	repo := NewPostgresOrderRepository(&fakeDatabase{tx: tx})
	order, lines := sampleOrderAndLines()

	// Act
	_, err := repo.CreateOrder(context.Background(), order, lines)

	// Assert: rollback completo, nenhum pedido parcial
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestCreateOrder_HeaderInsertFailureRollsBack(t *testing.T) {
	tx := &fakeTx{queryRowErr: errors.New("constraint violation")}
	repo := NewPostgresOrderRepository(&fakeDatabase{tx: tx})
	order, lines := sampleOrderAndLines()

	_, err := repo.CreateOrder(context.Background(), order, lines)

	require.Error(t, err)
	assert.Zero(t, tx.execCalls, "no line insert after a failed header insert")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestCreateOrder_CommitFailureRollsBack(t *testing.T) {
	tx := &fakeTx{orderID: 42, commitErr: errors.New("commit timeout")}
	repo := NewPostgresOrderRepository(&fakeDatabase{tx: tx})
	order, lines := sampleOrderAndLines()

	_, err := repo.CreateOrder(context.Background(), order, lines)

	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestCreateOrder_BeginFailure(t *testing.T) {
	repo := NewPostgresOrderRepository(&fakeDatabase{beginErr: errors.New("pool exhausted")})
	order, lines := sampleOrderAndLines()

	_, err := repo.CreateOrder(context.Background(), order, lines)

	require.Error(t, err)
}

func TestEnsureSchema_Error(t *testing.T) {
	repo := NewPostgresOrderRepository(&fakeDatabase{execErr: errors.New("permission denied")})

	err := repo.EnsureSchema(context.Background())

	require.Error(t, err)
}

func TestHealthcheck(t *testing.T) {
	healthy := NewPostgresOrderRepository(&fakeDatabase{})
	assert.NoError(t, healthy.Healthcheck(context.Background()))

	down := NewPostgresOrderRepository(&fakeDatabase{pingErr: errors.New("connection refused")})
	err := down.Healthcheck(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
