package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"olist-insights/pkg/models"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
)

// Open accepts a mariadb:// or mysql:// URL (or a native driver DSN)
// and returns a pooled connection.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// qualifyingOrders restricts to delivered orders whose timeline is
// internally consistent: purchase precedes delivery, or delivery absent.
func qualifyingOrders(b sq.SelectBuilder) sq.SelectBuilder {
	return b.
		Where(sq.Eq{"o.order_status": "delivered"}).
		Where("(o.order_delivered_customer_date IS NULL OR o.order_purchase_timestamp <= o.order_delivered_customer_date)")
}

// LoadOrderFacts returns one row per qualifying order with its payments
// summed, keyed by the deduplicated customer_unique_id. Rows missing a
// purchase timestamp or a payment total are skipped and counted, never
// fatal.
func LoadOrderFacts(ctx context.Context, db *sql.DB) ([]models.OrderFact, error) {
	query, args, err := qualifyingOrders(sq.
		Select(
			"o.order_id",
			"c.customer_unique_id",
			"o.order_purchase_timestamp",
			"SUM(p.payment_value) AS monetary",
		).
		From("orders o").
		Join("customers c ON c.customer_id = o.customer_id").
		Join("order_payments p ON p.order_id = o.order_id")).
		GroupBy("o.order_id", "c.customer_unique_id", "o.order_purchase_timestamp").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order fact query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query order facts: %w", err)
	}
	defer rows.Close()

	var facts []models.OrderFact
	skipped := 0
	for rows.Next() {
		var (
			orderID     string
			customerID  string
			purchasedAt sql.NullTime
			monetary    sql.NullFloat64
		)
		if err := rows.Scan(&orderID, &customerID, &purchasedAt, &monetary); err != nil {
			return nil, fmt.Errorf("scan order fact: %w", err)
		}
		if !purchasedAt.Valid || !monetary.Valid {
			skipped++
			continue
		}
		facts = append(facts, models.OrderFact{
			OrderID:     orderID,
			CustomerID:  customerID,
			PurchasedAt: purchasedAt.Time,
			Monetary:    monetary.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order facts: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] order facts: skipped %d rows with null timestamp/payment", skipped)
	}
	return facts, nil
}

// LoadOrders returns every order with its timeline, for the delivery
// performance and funnel reports. No status filter: the funnel needs
// all stages.
func LoadOrders(ctx context.Context, db *sql.DB) ([]models.OrderRecord, error) {
	query, args, err := sq.
		Select(
			"o.order_id",
			"c.customer_unique_id",
			"o.order_status",
			"o.order_purchase_timestamp",
			"o.order_approved_at",
			"o.order_delivered_carrier_date",
			"o.order_delivered_customer_date",
			"o.order_estimated_delivery_date",
		).
		From("orders o").
		Join("customers c ON c.customer_id = o.customer_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderRecord
	skipped := 0
	for rows.Next() {
		var (
			rec         models.OrderRecord
			purchasedAt sql.NullTime
		)
		if err := rows.Scan(&rec.OrderID, &rec.CustomerID, &rec.Status, &purchasedAt,
			&rec.ApprovedAt, &rec.ShippedAt, &rec.DeliveredAt, &rec.EstimatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if !purchasedAt.Valid {
			skipped++
			continue
		}
		rec.PurchasedAt = purchasedAt.Time
		orders = append(orders, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] orders: skipped %d rows with null purchase timestamp", skipped)
	}
	return orders, nil
}

// LoadItems returns order lines of qualifying orders with the product
// category resolved (english translation when available).
func LoadItems(ctx context.Context, db *sql.DB) ([]models.ItemRecord, error) {
	query, args, err := qualifyingOrders(sq.
		Select(
			"i.order_id",
			"i.product_id",
			"COALESCE(t.product_category_name_english, p.product_category_name, 'unknown')",
			"i.price",
			"i.freight_value",
			"o.order_purchase_timestamp",
		).
		From("order_items i").
		Join("orders o ON o.order_id = i.order_id").
		LeftJoin("products p ON p.product_id = i.product_id").
		LeftJoin("category_translation t ON t.product_category_name = p.product_category_name")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.ItemRecord
	skipped := 0
	for rows.Next() {
		var (
			rec         models.ItemRecord
			price       sql.NullFloat64
			freight     sql.NullFloat64
			purchasedAt sql.NullTime
		)
		if err := rows.Scan(&rec.OrderID, &rec.ProductID, &rec.Category, &price, &freight, &purchasedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if !price.Valid || !purchasedAt.Valid {
			skipped++
			continue
		}
		rec.Price = price.Float64
		rec.Freight = freight.Float64
		rec.PurchasedAt = purchasedAt.Time
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] items: skipped %d rows with null price/timestamp", skipped)
	}
	return items, nil
}

// LoadPayments returns all payment legs of qualifying orders.
func LoadPayments(ctx context.Context, db *sql.DB) ([]models.PaymentRecord, error) {
	query, args, err := qualifyingOrders(sq.
		Select("p.order_id", "p.payment_type", "p.payment_installments", "p.payment_value").
		From("order_payments p").
		Join("orders o ON o.order_id = p.order_id")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payments query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	skipped := 0
	for rows.Next() {
		var (
			rec          models.PaymentRecord
			installments sql.NullInt64
			value        sql.NullFloat64
		)
		if err := rows.Scan(&rec.OrderID, &rec.Type, &installments, &value); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if !value.Valid {
			skipped++
			continue
		}
		rec.Installments = int(installments.Int64)
		rec.Value = value.Float64
		payments = append(payments, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] payments: skipped %d rows with null value", skipped)
	}
	return payments, nil
}

// LoadReviews returns reviews joined back to the reviewing customer.
func LoadReviews(ctx context.Context, db *sql.DB) ([]models.ReviewRecord, error) {
	query, args, err := sq.
		Select(
			"r.review_id",
			"r.order_id",
			"c.customer_unique_id",
			"r.review_score",
			"COALESCE(r.review_comment_message, '')",
			"r.review_creation_date",
		).
		From("order_reviews r").
		Join("orders o ON o.order_id = r.order_id").
		Join("customers c ON c.customer_id = o.customer_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reviews query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.ReviewRecord
	skipped := 0
	for rows.Next() {
		var (
			rec       models.ReviewRecord
			score     sql.NullInt64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rec.ReviewID, &rec.OrderID, &rec.CustomerID, &score, &rec.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if !createdAt.Valid {
			skipped++
			continue
		}
		rec.Score = int(score.Int64)
		rec.CreatedAt = createdAt.Time
		reviews = append(reviews, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] reviews: skipped %d rows with null creation date", skipped)
	}
	return reviews, nil
}

// LoadGeoOrders resolves each qualifying order to its customer's
// coordinates via the zip-code prefix, averaging the geolocation rows
// sharing a prefix.
func LoadGeoOrders(ctx context.Context, db *sql.DB) ([]models.GeoOrder, error) {
	query, args, err := qualifyingOrders(sq.
		Select(
			"o.order_id",
			"MIN(g.geolocation_city)",
			"MIN(g.geolocation_state)",
			"AVG(g.geolocation_lat)",
			"AVG(g.geolocation_lng)",
		).
		From("orders o").
		Join("customers c ON c.customer_id = o.customer_id").
		Join("geolocation g ON g.geolocation_zip_code_prefix = c.customer_zip_code_prefix")).
		GroupBy("o.order_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build geo query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query geo orders: %w", err)
	}
	defer rows.Close()

	var out []models.GeoOrder
	skipped := 0
	for rows.Next() {
		var (
			rec models.GeoOrder
			lat sql.NullFloat64
			lng sql.NullFloat64
		)
		if err := rows.Scan(&rec.OrderID, &rec.City, &rec.State, &lat, &lng); err != nil {
			return nil, fmt.Errorf("scan geo order: %w", err)
		}
		if !lat.Valid || !lng.Valid {
			skipped++
			continue
		}
		rec.Lat = lat.Float64
		rec.Lng = lng.Float64
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate geo orders: %w", err)
	}
	if skipped > 0 {
		log.Printf("[DEBUG] geo orders: skipped %d rows with null coordinates", skipped)
	}
	return out, nil
}
