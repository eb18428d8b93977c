package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	referralsvc "github.com/mkamran-dev/storefront-backend/internal/referral"
	"github.com/mkamran-dev/storefront-backend/internal/types/order"
	"github.com/mkamran-dev/storefront-backend/internal/types/referral"
	"github.com/mkamran-dev/storefront-backend/internal/types/setting"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &PostgresStorage{db: db}

	// проверяем, что БД жива
	if err := s.db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	// создаём таблицы
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            customer_name TEXT NOT NULL,
            customer_email TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            address TEXT NOT NULL,
            address2 TEXT,
            postal_code TEXT NOT NULL,
            province TEXT NOT NULL,
            city TEXT NOT NULL,
            items JSONB NOT NULL,
            total_amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            is_wholesale BOOLEAN NOT NULL DEFAULT FALSE,
            referral_code TEXT,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS referral_codes (
            id SERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            discount_percentage DOUBLE PRECISION NOT NULL,
            max_uses INT,
            used_count INT NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) CreateOrder(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	q := `
        INSERT INTO orders (id, customer_name, customer_email, customer_phone,
            address, address2, postal_code, province, city,
            items, total_amount, status, is_wholesale, referral_code,
            created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err = s.db.ExecContext(ctx, q,
		o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Customer.Address, nullString(o.Customer.Address2), o.Customer.PostalCode,
		o.Customer.Province, o.Customer.City,
		items, o.TotalAmount, o.Status, o.IsWholesale, o.ReferralCode,
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

const orderColumns = `
    id, customer_name, customer_email, customer_phone,
    address, address2, postal_code, province, city,
    items, total_amount, status, is_wholesale, referral_code,
    created_at, updated_at`

func scanOrder(row interface {
	Scan(dest ...any) error
}) (*order.Order, error) {
	var (
		o        order.Order
		address2 sql.NullString
		refCode  sql.NullString
		items    []byte
	)
	err := row.Scan(
		&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.Customer.Address, &address2, &o.Customer.PostalCode,
		&o.Customer.Province, &o.Customer.City,
		&items, &o.TotalAmount, &o.Status, &o.IsWholesale, &refCode,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address2.Valid {
		o.Customer.Address2 = address2.String
	}
	if refCode.Valid {
		o.ReferralCode = &refCode.String
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return &o, nil
}

func (s *PostgresStorage) FindOrderByID(ctx context.Context, id string) (*order.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresStorage) ListOrders(ctx context.Context) ([]order.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return s.queryOrders(ctx, q)
}

func (s *PostgresStorage) ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY updated_at DESC`
	return s.queryOrders(ctx, q, status)
}

func (s *PostgresStorage) queryOrders(ctx context.Context, q string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
	q := `
        UPDATE orders
        SET status = $3, updated_at = $4
        WHERE id = $1 AND status = $2`
	res, err := s.db.ExecContext(ctx, q, id, from, to, updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStorage) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// pgUniqueViolation is the Postgres error code for a UNIQUE constraint hit.
const pgUniqueViolation = "23505"

func (s *PostgresStorage) CreateCode(ctx context.Context, c *referral.Code) error {
	q := `
        INSERT INTO referral_codes (code, discount_percentage, max_uses, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	err := s.db.QueryRowContext(ctx, q,
		c.Code, c.DiscountPercentage, c.MaxUses, c.IsActive, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	// two admins racing to create the same code both pass the service
	// pre-check; the unique index decides the loser here
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return referralsvc.ErrCodeExists
	}
	return err
}

func (s *PostgresStorage) ListCodes(ctx context.Context) ([]referral.Code, error) {
	q := `
        SELECT id, code, discount_percentage, max_uses, used_count, is_active, created_at, updated_at
        FROM referral_codes ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []referral.Code
	for rows.Next() {
		var (
			c       referral.Code
			maxUses sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &maxUses,
			&c.UsedCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if maxUses.Valid {
			m := int(maxUses.Int64)
			c.MaxUses = &m
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) FindCodeByCode(ctx context.Context, code string) (*referral.Code, error) {
	q := `
        SELECT id, code, discount_percentage, max_uses, used_count, is_active, created_at, updated_at
        FROM referral_codes WHERE code = $1`
	var (
		c       referral.Code
		maxUses sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, q, code).
		Scan(&c.ID, &c.Code, &c.DiscountPercentage, &maxUses,
			&c.UsedCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if maxUses.Valid {
		m := int(maxUses.Int64)
		c.MaxUses = &m
	}
	return &c, nil
}

// RedeemCode is the single place where used_count moves. The cap check and
// increment are one statement, so two checkouts racing for the last use
// cannot both succeed.
func (s *PostgresStorage) RedeemCode(ctx context.Context, code string) (float64, error) {
	q := `
        UPDATE referral_codes
        SET used_count = used_count + 1, updated_at = now()
        WHERE code = $1 AND is_active
          AND (max_uses IS NULL OR used_count < max_uses)
        RETURNING discount_percentage`
	var discount float64
	if err := s.db.QueryRowContext(ctx, q, code).Scan(&discount); err != nil {
		return 0, err
	}
	return discount, nil
}

func (s *PostgresStorage) DeleteCode(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM referral_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStorage) SetCodeActive(ctx context.Context, id int64, active bool) error {
	q := `UPDATE referral_codes SET is_active = $2, updated_at = now() WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id, active)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PostgresStorage) PutSetting(ctx context.Context, key, value string) error {
	q := `
        INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := s.db.ExecContext(ctx, q, key, value)
	return err
}

func (s *PostgresStorage) ListSettings(ctx context.Context) ([]setting.Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []setting.Setting
	for rows.Next() {
		var st setting.Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) DeliveredSalesSince(ctx context.Context, from time.Time) (float64, error) {
	q := `
        SELECT COALESCE(SUM(total_amount),0)
        FROM orders
        WHERE status = $1 AND updated_at >= $2`
	var total float64
	if err := s.db.QueryRowContext(ctx, q, order.StatusDelivered, from).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
