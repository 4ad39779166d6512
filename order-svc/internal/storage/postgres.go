package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"restaurant-orders/order-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// orders and order_items belong to this service; the other tables are owned by
// the restaurant administration side and only extended here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		restaurant_id BIGINT NOT NULL,
		table_id BIGINT,
		customer_id BIGINT,
		delivery_address TEXT,
		phone_number TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		sub_total NUMERIC(12,2) NOT NULL,
		tax NUMERIC(12,2) NOT NULL,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id BIGINT NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		price_at_order NUMERIC(12,2) NOT NULL
	)`,
	"ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS delivery_address TEXT",
	"ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS phone_number TEXT",
	"ALTER TABLE IF EXISTS restaurant_vip_configs ADD COLUMN IF NOT EXISTS discount_rate NUMERIC(5,4) NOT NULL DEFAULT 0.10",
	"CREATE INDEX IF NOT EXISTS idx_orders_restaurant_status ON orders (restaurant_id, status)",
	"CREATE INDEX IF NOT EXISTS idx_orders_table_status ON orders (table_id, status)",
	"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)",
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

const orderColumns = `id, restaurant_id, table_id, customer_id, delivery_address, phone_number,
	status, sub_total, tax, discount, total_amount, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o               domain.Order
		tableID         sql.NullInt64
		customerID      sql.NullInt64
		deliveryAddress sql.NullString
		phoneNumber     sql.NullString
		status          string
	)
	err := row.Scan(&o.ID, &o.RestaurantID, &tableID, &customerID, &deliveryAddress, &phoneNumber,
		&status, &o.SubTotal, &o.Tax, &o.Discount, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	if tableID.Valid {
		o.TableID = &tableID.Int64
	}
	if customerID.Valid {
		o.CustomerID = &customerID.Int64
	}
	if deliveryAddress.Valid {
		o.DeliveryAddress = &deliveryAddress.String
	}
	if phoneNumber.Valid {
		o.PhoneNumber = &phoneNumber.String
	}
	return o, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CreateOrder writes the order row first, then its items with the new id, in
// one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, table_id, customer_id, delivery_address, phone_number,
			status, sub_total, tax, discount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, order.RestaurantID, order.TableID, order.CustomerID, order.DeliveryAddress, order.PhoneNumber,
		string(order.Status), order.SubTotal, order.Tax, order.Discount, order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, order.ID, items[i].MenuItemID, items[i].Quantity, items[i].PriceAtOrder).Scan(&items[i].ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return r.listOrders(ctx, "restaurant_id", restaurantID, statuses)
}

func (r *PostgresRepository) ListByTable(ctx context.Context, tableID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return r.listOrders(ctx, "table_id", tableID, statuses)
}

// listOrders filters on one owner column; column is always a constant.
func (r *PostgresRepository) listOrders(ctx context.Context, column string, id int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = $1`
	args := []any{id}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(domain.StatusStrings(statuses)))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *PostgresRepository) ListItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, quantity, price_at_order
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceAtOrder); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus writes the new status. When change.From is set the write only
// lands if the row still carries that status, otherwise ErrStatusConflict.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, change domain.StatusChange) (*domain.Order, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	args := []any{string(change.To), change.OrderID}
	if change.From != "" {
		query += ` AND status = $3`
		args = append(args, string(change.From))
	}
	query += ` RETURNING ` + orderColumns

	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, args...))
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if change.From == "" {
		return nil, domain.ErrOrderNotFound
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, change.OrderID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrStatusConflict
}

// BulkUpdateStatus is all or nothing: if any listed order is missing or no
// longer in one of the from statuses, nothing is written.
func (r *PostgresRepository) BulkUpdateStatus(ctx context.Context, orderIDs []int64, status domain.OrderStatus, from []domain.OrderStatus) ([]domain.Order, error) {
	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	args := []any{string(status), pq.Array(orderIDs)}
	if len(from) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, pq.Array(domain.StatusStrings(from)))
	}
	query += ` RETURNING ` + orderColumns

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	updated, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(updated) != len(uniqueIDs(orderIDs)) {
		return nil, fmt.Errorf("%w: %d of %d orders updatable", domain.ErrStatusConflict, len(updated), len(orderIDs))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
