package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/utils"
)

// TransactionFilter is the normalized predicate compiled once per request and
// shared by the page fetch, the count, and the stats aggregation. Nil/empty
// fields add no constraint.
type TransactionFilter struct {
	Search         string
	Regions        []string
	Genders        []string
	Categories     []string
	PaymentMethods []string
	Tags           []string
	MinAge         *int
	MaxAge         *int
	StartDate      *time.Time
	EndDate        *time.Time
}

// TransactionRepository wraps read access to the transactions table.
type TransactionRepository struct {
	DB *sql.DB
}

func (r TransactionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const transactionColumns = `
	id,
	COALESCE(customer_id,''), COALESCE(customer_name,''), COALESCE(phone_number,''),
	COALESCE(gender,''), age, COALESCE(customer_region,''), COALESCE(customer_type,''),
	COALESCE(product_id,''), COALESCE(product_name,''), COALESCE(brand,''),
	COALESCE(product_category,''), COALESCE(tags,''),
	quantity, price_per_unit, discount_percentage, total_amount, final_amount,
	date, COALESCE(payment_method,''), COALESCE(order_status,''), COALESCE(delivery_type,''),
	COALESCE(store_id,''), COALESCE(store_location,''), COALESCE(salesperson_id,''),
	COALESCE(employee_name,'')
`

// BuildWhere renders the predicate as a WHERE clause plus args. Every
// sub-query of one request goes through the same call so none of them can see
// a different filter state.
func BuildWhere(f TransactionFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if f.Search != "" {
		// LIKE is case-insensitive under the table's utf8mb4 ci collation
		like := "%" + f.Search + "%"
		conds = append(conds, "(customer_name LIKE ? OR phone_number LIKE ?)")
		args = append(args, like, like)
	}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
		conds = append(conds, column+" IN ("+placeholders+")")
		for _, v := range values {
			args = append(args, v)
		}
	}
	addIn("customer_region", f.Regions)
	addIn("gender", f.Genders)
	addIn("product_category", f.Categories)
	addIn("payment_method", f.PaymentMethods)

	// each requested tag must be present in the record's tag set
	for _, tag := range f.Tags {
		conds = append(conds, "FIND_IN_SET(?, tags) > 0")
		args = append(args, tag)
	}

	if f.MinAge != nil {
		conds = append(conds, "age >= ?")
		args = append(args, *f.MinAge)
	}
	if f.MaxAge != nil {
		conds = append(conds, "age <= ?")
		args = append(args, *f.MaxAge)
	}
	if f.StartDate != nil {
		conds = append(conds, "date >= ?")
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		conds = append(conds, "date <= ?")
		args = append(args, *f.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(s domain.Sort) string {
	column := s.Column
	switch column {
	case "date", "quantity", "final_amount", "total_amount", "customer_name":
	default:
		column = "date"
	}
	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}
	// id tie-break keeps paging deterministic across identical requests
	return " ORDER BY " + column + dir + ", id ASC"
}

// List returns one sorted page of matching transactions.
func (r TransactionRepository) List(ctx context.Context, f TransactionFilter, sort domain.Sort, limit, offset int) ([]models.Transaction, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "transactions") {
		return []models.Transaction{}, nil
	}

	where, args := BuildWhere(f)
	query := "SELECT " + transactionColumns + " FROM transactions" + where + orderClause(sort) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Transaction{}
	for rows.Next() {
		var (
			t           models.Transaction
			tags        string
			totalAmount sql.NullFloat64
			finalAmount sql.NullFloat64
		)
		if err := rows.Scan(
			&t.ID,
			&t.CustomerID, &t.CustomerName, &t.PhoneNumber,
			&t.Gender, &t.Age, &t.CustomerRegion, &t.CustomerType,
			&t.ProductID, &t.ProductName, &t.Brand,
			&t.ProductCategory, &tags,
			&t.Quantity, &t.PricePerUnit, &t.DiscountPercentage, &totalAmount, &finalAmount,
			&t.Date, &t.PaymentMethod, &t.OrderStatus, &t.DeliveryType,
			&t.StoreID, &t.StoreLocation, &t.SalespersonID,
			&t.EmployeeName,
		); err != nil {
			return nil, err
		}
		t.Tags = utils.SplitList(tags)
		if totalAmount.Valid {
			v := totalAmount.Float64
			t.TotalAmount = &v
		}
		if finalAmount.Valid {
			v := finalAmount.Float64
			t.FinalAmount = &v
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Count returns the unsliced number of matching transactions.
func (r TransactionRepository) Count(ctx context.Context, f TransactionFilter) (int, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "transactions") {
		return 0, nil
	}

	where, args := BuildWhere(f)
	var total int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total)
	return total, err
}

// Stats aggregates units, amount and discount over every matching record.
// A missing total_amount counts as 0 and a missing final_amount falls back to
// total_amount so its discount contribution is 0, never negative.
func (r TransactionRepository) Stats(ctx context.Context, f TransactionFilter) (models.TransactionStats, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "transactions") {
		return models.TransactionStats{}, nil
	}

	where, args := BuildWhere(f)
	query := `SELECT
		COALESCE(SUM(quantity),0),
		COALESCE(SUM(COALESCE(total_amount,0)),0),
		COALESCE(SUM(COALESCE(total_amount,0) - COALESCE(final_amount, total_amount, 0)),0)
	FROM transactions` + where

	var stats models.TransactionStats
	err := db.QueryRowContext(ctx, query, args...).Scan(&stats.TotalUnits, &stats.TotalAmount, &stats.TotalDiscount)
	return stats, err
}

// Distinct returns the distinct non-empty values of one whitelisted column
// over the whole store, unfiltered.
func (r TransactionRepository) Distinct(ctx context.Context, column string) ([]string, error) {
	switch column {
	case "customer_region", "gender", "product_category", "payment_method", "tags":
	default:
		return []string{}, nil
	}

	db := r.db()
	if db == nil || !intdb.HasTable(db, "transactions") {
		return []string{}, nil
	}

	rows, err := db.QueryContext(ctx, "SELECT DISTINCT "+column+" FROM transactions WHERE COALESCE("+column+",'') <> ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DistinctTags flattens the per-record tag sets into one distinct list.
func (r TransactionRepository) DistinctTags(ctx context.Context) ([]string, error) {
	raw, err := r.Distinct(ctx, "tags")
	if err != nil {
		return nil, err
	}

	tags := []string{}
	seen := map[string]bool{}
	for _, set := range raw {
		for _, tag := range utils.SplitList(set) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}
