package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestHasTable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("transactions").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("transactions"))
	if !HasTable(conn, "transactions") {
		t.Fatal("expected table to be reported as present")
	}

	mock.ExpectQuery("information_schema\\.tables").WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	if HasTable(conn, "orders") {
		t.Fatal("expected missing table to be reported as absent")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("information_schema\\.columns").WithArgs("transactions", "tags").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("tags"))
	if !HasColumn(conn, "transactions", "tags") {
		t.Fatal("expected column to be reported as present")
	}

	mock.ExpectQuery("information_schema\\.columns").WithArgs("transactions", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	if HasColumn(conn, "transactions", "nope") {
		t.Fatal("expected missing column to be reported as absent")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHelpersNilHandle(t *testing.T) {
	if HasTable(nil, "transactions") {
		t.Fatal("nil handle must report absent table")
	}
	if HasColumn(nil, "transactions", "tags") {
		t.Fatal("nil handle must report absent column")
	}
}
