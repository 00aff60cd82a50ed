package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/utils"
)

// Bulk loader: streams a transactions CSV into MySQL in batches. A failed
// batch is logged and skipped so one bad chunk never aborts the import.

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	customer_id VARCHAR(64) NOT NULL DEFAULT '',
	customer_name VARCHAR(255) NOT NULL DEFAULT '',
	phone_number VARCHAR(32) NOT NULL DEFAULT '',
	gender VARCHAR(16) NOT NULL DEFAULT '',
	age INT NOT NULL DEFAULT 0,
	customer_region VARCHAR(128) NOT NULL DEFAULT '',
	customer_type VARCHAR(64) NOT NULL DEFAULT '',
	product_id VARCHAR(64) NOT NULL DEFAULT '',
	product_name VARCHAR(255) NOT NULL DEFAULT '',
	brand VARCHAR(128) NOT NULL DEFAULT '',
	product_category VARCHAR(128) NOT NULL DEFAULT '',
	tags VARCHAR(512) NOT NULL DEFAULT '',
	quantity INT NOT NULL DEFAULT 0,
	price_per_unit DECIMAL(12,2) NOT NULL DEFAULT 0,
	discount_percentage DECIMAL(5,2) NOT NULL DEFAULT 0,
	total_amount DECIMAL(14,2) NULL,
	final_amount DECIMAL(14,2) NULL,
	date DATETIME NOT NULL,
	payment_method VARCHAR(64) NOT NULL DEFAULT '',
	order_status VARCHAR(64) NOT NULL DEFAULT '',
	delivery_type VARCHAR(64) NOT NULL DEFAULT '',
	store_id VARCHAR(64) NOT NULL DEFAULT '',
	store_location VARCHAR(128) NOT NULL DEFAULT '',
	salesperson_id VARCHAR(64) NOT NULL DEFAULT '',
	employee_name VARCHAR(255) NOT NULL DEFAULT '',
	KEY idx_transactions_customer_name (customer_name),
	KEY idx_transactions_product_category (product_category),
	KEY idx_transactions_date (date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

var insertColumns = []string{
	"customer_id", "customer_name", "phone_number", "gender", "age",
	"customer_region", "customer_type",
	"product_id", "product_name", "brand", "product_category", "tags",
	"quantity", "price_per_unit", "discount_percentage", "total_amount", "final_amount",
	"date", "payment_method", "order_status", "delivery_type",
	"store_id", "store_location", "salesperson_id", "employee_name",
}

func main() {
	file := flag.String("file", "dataset.csv", "path to the transactions CSV")
	batchSize := flag.Int("batch", 5000, "rows per INSERT batch")
	truncate := flag.Bool("truncate", false, "clear existing transactions before loading")
	flag.Parse()

	env := intconfig.LoadEnv()
	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("failed to ensure transactions schema: %v", err)
	}
	for _, col := range []string{"tags", "total_amount", "final_amount", "date"} {
		if !intdb.HasColumn(db, "transactions", col) {
			log.Fatalf("transactions schema out of date: column %s missing", col)
		}
	}

	if *truncate {
		if _, err := db.Exec("TRUNCATE TABLE transactions"); err != nil {
			log.Fatalf("failed to truncate transactions: %v", err)
		}
		log.Println("old data cleared")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("failed to open dataset: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Fatalf("failed to read CSV header: %v", err)
	}
	index := headerIndex(header)

	log.Printf("reading from %s (batch size %d)", *file, *batchSize)

	var (
		batch    [][]any
		inserted int
		skipped  int
		failed   int
	)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := insertBatch(db, batch); err != nil {
			// duplicate-tolerant contract: keep going after a failed batch
			log.Printf("batch of %d failed, continuing: %v", len(batch), err)
			failed += len(batch)
		} else {
			inserted += len(batch)
			log.Printf("inserted %d rows so far", inserted)
		}
		batch = batch[:0]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unreadable row skipped: %v", err)
			skipped++
			continue
		}

		values, ok := rowValues(index, record)
		if !ok {
			skipped++
			continue
		}
		batch = append(batch, values)

		if len(batch) >= *batchSize {
			flush()
		}
	}
	flush()

	log.Printf("import finished: inserted=%d failed=%d skipped=%d", inserted, failed, skipped)
}

// headerIndex maps normalized header names to column positions so
// "Customer ID", "CustomerID" and "customer_id" all resolve the same way.
func headerIndex(header []string) map[string]int {
	index := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(name)
		key = strings.ReplaceAll(key, " ", "")
		key = strings.ReplaceAll(key, "_", "")
		index[key] = i
	}
	return index
}

func rowValues(index map[string]int, record []string) ([]any, bool) {
	get := func(key string) string {
		i, ok := index[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	num := func(key string) float64 {
		v, _ := strconv.ParseFloat(get(key), 64)
		return v
	}
	numOrNull := func(key string) any {
		raw := get(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return v
	}

	// date is required; rows without a usable one are skipped
	date, err := utils.ParseDate(get("date"))
	if err != nil {
		return nil, false
	}

	age, _ := strconv.Atoi(get("age"))
	quantity, _ := strconv.Atoi(get("quantity"))

	// tags are matched with FIND_IN_SET, which is exact per element: strip the
	// spaces a source like "sale, new" carries before storing the set
	tags := strings.Join(utils.SplitList(get("tags")), ",")

	return []any{
		get("customerid"), get("customername"), get("phonenumber"), get("gender"), age,
		get("customerregion"), get("customertype"),
		get("productid"), get("productname"), get("brand"), get("productcategory"), tags,
		quantity, num("priceperunit"), num("discountpercentage"), numOrNull("totalamount"), numOrNull("finalamount"),
		date, get("paymentmethod"), get("orderstatus"), get("deliverytype"),
		get("storeid"), get("storelocation"), get("salespersonid"), get("employeename"),
	}, true
}

func insertBatch(db *sql.DB, batch [][]any) error {
	row := "(" + strings.TrimSuffix(strings.Repeat("?,", len(insertColumns)), ",") + ")"
	rows := make([]string, len(batch))
	args := make([]any, 0, len(batch)*len(insertColumns))
	for i, values := range batch {
		rows[i] = row
		args = append(args, values...)
	}

	query := fmt.Sprintf("INSERT INTO transactions (%s) VALUES %s",
		strings.Join(insertColumns, ","), strings.Join(rows, ","))
	_, err := db.Exec(query, args...)
	return err
}
