package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"restaurant-orders/order-svc/internal/domain"
)

const menuItemColumns = `id, restaurant_id, category_id, name, COALESCE(description, ''), price,
	COALESCE(image_url, ''), is_available`

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var (
		item       domain.MenuItem
		categoryID sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.RestaurantID, &categoryID, &item.Name, &item.Description,
		&item.Price, &item.ImageURL, &item.IsAvailable); err != nil {
		return domain.MenuItem{}, err
	}
	if categoryID.Valid {
		item.CategoryID = &categoryID.Int64
	}
	return item, nil
}

func (r *PostgresRepository) FindMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	items := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *PostgresRepository) FindMenuItemByName(ctx context.Context, restaurantID int64, name string) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE restaurant_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1
	`, restaurantID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) EnsureCategory(ctx context.Context, restaurantID int64, name string, displayOrder int) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT id FROM categories
		WHERE restaurant_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1
	`, restaurantID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO categories (restaurant_id, name, display_order)
		VALUES ($1, $2, $3)
		RETURNING id
	`, restaurantID, name, displayOrder).Scan(&id)
	return id, err
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, category_id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, item.RestaurantID, item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL, item.IsAvailable).
		Scan(&item.ID)
}

func (r *PostgresRepository) UpdateMenuItemPrice(ctx context.Context, menuItemID int64, price decimal.Decimal) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE menu_items SET price = $1, updated_at = NOW() WHERE id = $2`, price, menuItemID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *PostgresRepository) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, phone_number, is_member
		FROM customers WHERE id = $1
	`, customerID).Scan(&c.ID, &c.RestaurantID, &c.PhoneNumber, &c.IsMember)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) MarkMember(ctx context.Context, customerID int64) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE customers SET is_member = TRUE, updated_at = NOW() WHERE id = $1`, customerID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresRepository) GetVipConfig(ctx context.Context, restaurantID int64) (*domain.VipConfig, error) {
	var cfg domain.VipConfig
	err := r.DB.QueryRowContext(ctx, `
		SELECT restaurant_id, is_enabled, price, discount_rate, COALESCE(description, ''), COALESCE(image_url, '')
		FROM restaurant_vip_configs
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&cfg.RestaurantID, &cfg.IsEnabled, &cfg.Price, &cfg.DiscountRate, &cfg.Description, &cfg.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVipConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *PostgresRepository) GetTable(ctx context.Context, tableID int64) (*domain.RestaurantTable, error) {
	var t domain.RestaurantTable
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, table_number, COALESCE(qr_code_slug, '')
		FROM restaurant_tables WHERE id = $1
	`, tableID).Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.QRCodeSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, table_number, COALESCE(qr_code_slug, '')
		FROM restaurant_tables
		WHERE restaurant_id = $1
		ORDER BY table_number
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []domain.RestaurantTable{}
	for rows.Next() {
		var t domain.RestaurantTable
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.QRCodeSlug); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
