package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database captura o que o repositório usa do pool pgx. *pgxpool.Pool satisfaz
// esta interface.
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// OrderRepository define a interface para persistência de pedidos
type OrderRepository interface {
	// CreateOrder persiste o pedido e suas linhas em uma única transação e
	// retorna o identificador gerado
	CreateOrder(ctx context.Context, order *Order, lines []OrderLine) (int64, error)

	// Healthcheck verifica a conectividade com o banco
	Healthcheck(ctx context.Context) error
}

// PostgresOrderRepository implementa OrderRepository usando PostgreSQL
type PostgresOrderRepository struct {
	db Database
}

// NewPostgresOrderRepository cria uma nova instância de PostgresOrderRepository
func NewPostgresOrderRepository(db Database) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// EnsureSchema garante que as tabelas de pedidos existem. Chamado no startup;
// uma falha aqui é logada e deixada para o healthcheck reportar.
func (r *PostgresOrderRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			subtotal BIGINT NOT NULL,
			tax_rate NUMERIC(5,4) NOT NULL,
			tax BIGINT NOT NULL,
			total BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS order_lines (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id),
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_price BIGINT NOT NULL,
			quantity INT NOT NULL,
			line_total BIGINT NOT NULL
		);
	`
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateOrder insere o cabeçalho do pedido e todas as suas linhas dentro de
// uma transação. Qualquer falha em qualquer caminho faz rollback completo:
// nunca persiste um pedido parcial.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *Order, lines []OrderLine) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op após um commit bem-sucedido
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (subtotal, tax_rate, tax, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, order.Subtotal, FormatTaxRate(order.TaxRateBps), order.Tax, order.Total, order.CreatedAt).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, sku, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, line.Sku, line.Name, line.UnitPrice, line.Quantity, line.LineTotal)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order line %s: %w", line.Sku, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	return orderID, nil
}

// Healthcheck verifica a conectividade com o banco
func (r *PostgresOrderRepository) Healthcheck(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
