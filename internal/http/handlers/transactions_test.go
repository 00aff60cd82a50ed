package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/transactions", ListTransactions)
	r.GET("/api/transactions/options", GetTransactionOptions)
	return r
}

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	intconfig.DB = db
	t.Cleanup(func() {
		intconfig.DB = nil
		db.Close()
	})
	return mock
}

func expectTransactionsTable(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectQuery("information_schema\\.tables").WithArgs("transactions").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("transactions"))
	}
}

func emptyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id",
		"customer_id", "customer_name", "phone_number",
		"gender", "age", "customer_region", "customer_type",
		"product_id", "product_name", "brand",
		"product_category", "tags",
		"quantity", "price_per_unit", "discount_percentage", "total_amount", "final_amount",
		"date", "payment_method", "order_status", "delivery_type",
		"store_id", "store_location", "salesperson_id",
		"employee_name",
	})
}

func TestConfiguredQueryTimeoutReachesService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	SetQueryTimeout(42 * time.Second)
	t.Cleanup(func() { SetQueryTimeout(0) })

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)

	svc := newTransactionService(c)
	assert.Equal(t, 42*time.Second, svc.Timeout)
}

func TestListTransactionsEnvelope(t *testing.T) {
	mock := newMockDB(t)
	expectTransactionsTable(mock, 3)

	// page=2&limit=5 must reach the store as LIMIT 5 OFFSET 5
	mock.ExpectQuery("ORDER BY date DESC, id ASC LIMIT \\? OFFSET \\?").
		WithArgs("North", 5, 5).
		WillReturnRows(emptyRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions").
		WithArgs("North").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SUM\\(quantity\\)").
		WithArgs("North").
		WillReturnRows(sqlmock.NewRows([]string{"u", "a", "d"}).AddRow(30, 900.0, 45.0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions?region=North&page=2&limit=5", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool              `json:"success"`
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			TotalItems  int `json:"totalItems"`
			TotalPages  int `json:"totalPages"`
			CurrentPage int `json:"currentPage"`
			Limit       int `json:"limit"`
		} `json:"pagination"`
		Stats struct {
			TotalUnits    int64   `json:"totalUnits"`
			TotalAmount   float64 `json:"totalAmount"`
			TotalDiscount float64 `json:"totalDiscount"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
	assert.Equal(t, 12, body.Pagination.TotalItems)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.Equal(t, 5, body.Pagination.Limit)
	assert.Equal(t, int64(30), body.Stats.TotalUnits)
	assert.Equal(t, 45.0, body.Stats.TotalDiscount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsStoreFailure(t *testing.T) {
	mock := newMockDB(t)
	expectTransactionsTable(mock, 3)

	mock.ExpectQuery("ORDER BY date DESC, id ASC LIMIT \\? OFFSET \\?").
		WillReturnRows(emptyRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions").
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectQuery("SUM\\(quantity\\)").
		WillReturnRows(sqlmock.NewRows([]string{"u", "a", "d"}).AddRow(0, 0.0, 0.0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
	// internal detail must not leak
	assert.NotContains(t, fmt.Sprint(body["message"]), "connection reset")
}

func TestGetTransactionOptionsEnvelope(t *testing.T) {
	mock := newMockDB(t)
	expectTransactionsTable(mock, 5)

	mock.ExpectQuery("SELECT DISTINCT customer_region").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("North"))
	mock.ExpectQuery("SELECT DISTINCT product_category").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("Electronics"))
	mock.ExpectQuery("SELECT DISTINCT gender").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("Female"))
	mock.ExpectQuery("SELECT DISTINCT payment_method").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("Card"))
	mock.ExpectQuery("SELECT DISTINCT tags").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("sale,new"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions/options", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Regions        []string `json:"regions"`
			Categories     []string `json:"categories"`
			Genders        []string `json:"genders"`
			PaymentMethods []string `json:"paymentMethods"`
			Tags           []string `json:"tags"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, []string{"North"}, body.Data.Regions)
	assert.Equal(t, []string{"sale", "new"}, body.Data.Tags)

	assert.NoError(t, mock.ExpectationsWereMet())
}
