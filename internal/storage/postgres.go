package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/usecase"
)

// PostgresRepository implements usecase.OrderRepository on PostgreSQL.
// Aggregate state and outbox rows are written in a single transaction.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	DatabaseURL  string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	Logger       *zap.Logger
}

// NewPostgresRepository opens the pool and verifies connectivity.
func NewPostgresRepository(cfg *PostgresConfig) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	idleTime := cfg.MaxIdleTime
	if idleTime <= 0 {
		idleTime = 30 * time.Second
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(idleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-repository-connected",
		zap.Int("max-open-conns", maxOpen))

	return &PostgresRepository{db: db, logger: cfg.Logger}, nil
}

// NewPostgresRepositoryWithDB wraps an existing pool. Used by tests and
// by callers that manage the pool lifecycle themselves.
func NewPostgresRepositoryWithDB(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// DB exposes the underlying pool for components that share it.
func (r *PostgresRepository) DB() *sql.DB {
	return r.db
}

// Save persists the aggregate and its drained events in one transaction:
// UPSERT the orders row, rewrite the item set, append outbox rows. On
// any failure the transaction rolls back and nothing is visible.
func (r *PostgresRepository) Save(ctx context.Context, order *domain.Order, events []domain.DomainEvent) error {
	start := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		OrdersSavedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	totalAmount := 0.0
	totalCurrency := domain.CurrencyUSD.Code()
	if total, err := order.Total(); err == nil {
		totalAmount = total.Amount()
		totalCurrency = total.Currency().Code()
	}

	upsert := `
		INSERT INTO orders (id, status, total_amount, currency, created_at, updated_at)
		VALUES ($1, 'PENDING', $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			total_amount = EXCLUDED.total_amount,
			currency = EXCLUDED.currency,
			updated_at = now()
	`
	if _, err := tx.ExecContext(ctx, upsert,
		order.ID().String(),
		totalAmount,
		totalCurrency,
		order.CreatedAt(),
	); err != nil {
		OrdersSavedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("upsert order: %w", err)
	}

	// Rewrite strategy: the aggregate owns the full item set, so
	// replacing all rows is simpler than diffing and always correct.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1`,
		order.ID().String(),
	); err != nil {
		OrdersSavedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("delete order items: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	// Microsecond offsets keep insertion order recoverable through the
	// created_at sort used by FindByID.
	base := time.Now().UTC()
	for i, item := range order.Items() {
		subtotal, err := item.Subtotal()
		if err != nil {
			OrdersSavedTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("compute item subtotal: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertItem,
			uuid.NewString(),
			order.ID().String(),
			item.ProductID().String(),
			item.Quantity().Value(),
			item.UnitPrice().Amount(),
			subtotal.Amount(),
			item.UnitPrice().Currency().Code(),
			base.Add(time.Duration(i)*time.Microsecond),
		); err != nil {
			OrdersSavedTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	writer := NewOutboxWriter(tx, r.logger)
	if err := writer.PublishAll(ctx, events); err != nil {
		OrdersSavedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("enqueue events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		OrdersSavedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("commit transaction: %w", err)
	}

	OrdersSavedTotal.WithLabelValues("ok").Inc()
	SaveDurationSeconds.Observe(time.Since(start).Seconds())
	r.logger.Debug("order-saved",
		zap.String("order-id", order.ID().String()),
		zap.Int("item-count", order.ItemCount()),
		zap.Int("event-count", len(events)))

	return nil
}

// FindByID reconstitutes an order from its rows. Item rows that fail
// value-level validation are dropped with a warning rather than failing
// the whole load.
func (r *PostgresRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM orders WHERE id = $1`,
		id.String(),
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		OrderLoadsTotal.WithLabelValues("not_found").Inc()
		return nil, usecase.ErrOrderNotFound
	}
	if err != nil {
		OrderLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price, currency
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, id.String())
	if err != nil {
		OrderLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			rawProduct  string
			rawQuantity int
			rawPrice    float64
			rawCurrency string
		)
		if err := rows.Scan(&rawProduct, &rawQuantity, &rawPrice, &rawCurrency); err != nil {
			OrderLoadsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		item, err := r.rowToItem(rawProduct, rawQuantity, rawPrice, rawCurrency)
		if err != nil {
			r.logger.Warn("order-item-row-dropped",
				zap.String("order-id", id.String()),
				zap.String("product-id", rawProduct),
				zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		OrderLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	OrderLoadsTotal.WithLabelValues("ok").Inc()
	return domain.ReconstituteOrder(id, createdAt, items, nil), nil
}

func (r *PostgresRepository) rowToItem(rawProduct string, rawQuantity int, rawPrice float64, rawCurrency string) (domain.OrderItem, error) {
	productID, err := domain.NewProductID(rawProduct)
	if err != nil {
		return domain.OrderItem{}, err
	}
	quantity, err := domain.NewQuantity(rawQuantity)
	if err != nil {
		return domain.OrderItem{}, err
	}
	currency, err := domain.NewCurrency(rawCurrency)
	if err != nil {
		return domain.OrderItem{}, err
	}
	price, err := domain.NewMoney(rawPrice, currency)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return domain.NewOrderItem(productID, quantity, price), nil
}

// Exists reports whether an order row is present.
func (r *PostgresRepository) Exists(ctx context.Context, id domain.OrderID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`,
		id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query order existence: %w", err)
	}
	return exists, nil
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.logger.Info("closing-postgres-repository")
	return r.db.Close()
}
