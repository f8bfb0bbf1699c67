package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/asquebay/meal-ticket-service/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository инкапсулирует логику работы с заказами в БД
type OrderRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{
		db: db,
		// использую плейсхолдеры в стиле PostgreSQL ($1, $2, $3,...)
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OrderRepository) insertOrderQuery(order model.Order) (string, []any, error) {
	return r.sq.Insert("orders").
		Columns("order_uid", "shift_id", "customer_id", "source", "date_created").
		Values(order.OrderUID, order.ShiftID, order.CustomerID, order.Source, order.DateCreated).
		ToSql()
}

// insertItemsQuery вставляет все единицы заказа одним запросом, position сохраняет порядок
func (r *OrderRepository) insertItemsQuery(order model.Order) (string, []any, error) {
	q := r.sq.Insert("order_items").Columns("order_uid", "position", "menu_item_id")
	for pos, itemID := range order.ItemIDs {
		q = q.Values(order.OrderUID, pos, itemID)
	}
	return q.ToSql()
}

// CreateOrder сохраняет заказ в базу данных в рамках одной транзакции
func (r *OrderRepository) CreateOrder(ctx context.Context, order model.Order) error {
	const op = "repository.postgres.order.CreateOrder"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	// гарантируем откат транзакции в случае любой ошибки
	defer tx.Rollback(ctx)

	// 1. Вставка в таблицу orders
	sql, args, err := r.insertOrderQuery(order)
	if err != nil {
		return fmt.Errorf("%s: failed to build orders insert query: %w", op, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: failed to insert into orders: %w", op, err)
	}

	// 2. Вставка в таблицу order_items
	sql, args, err = r.insertItemsQuery(order)
	if err != nil {
		return fmt.Errorf("%s: failed to build order_items insert query: %w", op, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: failed to insert into order_items: %w", op, err)
	}

	return tx.Commit(ctx)
}

// GetOrderByUID извлекает один заказ из базы данных по его UID
func (r *OrderRepository) GetOrderByUID(ctx context.Context, uid string) (model.Order, error) {
	const op = "repository.postgres.order.GetOrderByUID"

	query := `
		SELECT order_uid::text, shift_id, customer_id, source, date_created
		FROM orders
		WHERE order_uid::text = $1
	`
	var order model.Order
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&order.OrderUID, &order.ShiftID, &order.CustomerID, &order.Source, &order.DateCreated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return model.Order{}, fmt.Errorf("%s: failed to query order: %w", op, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT menu_item_id
		FROM order_items
		WHERE order_uid::text = $1
		ORDER BY position
	`, uid)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to query items: %w", op, err)
	}

	order.ItemIDs, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to scan item rows: %w", op, err)
	}

	return order, nil
}
