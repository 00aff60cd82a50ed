package services

import (
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"backend/internal/domain/models"
	"backend/internal/repositories"
)

// matchesFilter is an in-memory reference for the SQL predicate, used to pin
// down the compiled filter's semantics against fixture records.
func matchesFilter(f repositories.TransactionFilter, t models.Transaction) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(t.PhoneNumber), needle) {
			return false
		}
	}
	if len(f.Regions) > 0 && !contains(f.Regions, t.CustomerRegion) {
		return false
	}
	if len(f.Genders) > 0 && !contains(f.Genders, t.Gender) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, t.ProductCategory) {
		return false
	}
	if len(f.PaymentMethods) > 0 && !contains(f.PaymentMethods, t.PaymentMethod) {
		return false
	}
	for _, tag := range f.Tags {
		if !contains(t.Tags, tag) {
			return false
		}
	}
	if f.MinAge != nil && t.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && t.Age > *f.MaxAge {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func fixtureRecords() []models.Transaction {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	return []models.Transaction{
		{ID: 1, CustomerName: "Alice", CustomerRegion: "North", Age: 20, Quantity: 2,
			TotalAmount: floatPtr(100), FinalAmount: floatPtr(90), Date: date},
		{ID: 2, CustomerName: "Bob", CustomerRegion: "South", Age: 30, Quantity: 1,
			TotalAmount: floatPtr(200), FinalAmount: floatPtr(200), Date: date},
		{ID: 3, CustomerName: "Carol", CustomerRegion: "North", Age: 65, Quantity: 3,
			TotalAmount: floatPtr(50), FinalAmount: floatPtr(50), Date: date},
	}
}

func TestPredicateScenarioNorthYoungAdults(t *testing.T) {
	q := CompileQuery(RawTransactionQuery{Region: "North", AgeRange: "19-25"})

	matched := []models.Transaction{}
	for _, rec := range fixtureRecords() {
		if matchesFilter(q.Filter, rec) {
			matched = append(matched, rec)
		}
	}

	if len(matched) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(matched))
	}
	if matched[0].Age != 20 {
		t.Fatalf("wrong record matched: age %d", matched[0].Age)
	}
	if got := matched[0].Discount(); got != 10 {
		t.Fatalf("matched record should contribute 10 to totalDiscount, got %v", got)
	}
}

func TestPredicateAgeBucketBoundaries(t *testing.T) {
	q := CompileQuery(RawTransactionQuery{AgeRange: "19-25"})
	for age, want := range map[int]bool{18: false, 19: true, 25: true, 26: false} {
		rec := models.Transaction{Age: age}
		if got := matchesFilter(q.Filter, rec); got != want {
			t.Fatalf("ageRange 19-25 with age %d: matched=%v want %v", age, got, want)
		}
	}

	q = CompileQuery(RawTransactionQuery{AgeRange: "60+"})
	for age, want := range map[int]bool{59: false, 60: true, 80: true} {
		rec := models.Transaction{Age: age}
		if got := matchesFilter(q.Filter, rec); got != want {
			t.Fatalf("ageRange 60+ with age %d: matched=%v want %v", age, got, want)
		}
	}
}

func TestDiscountContribution(t *testing.T) {
	withFinal := models.Transaction{TotalAmount: floatPtr(1000), FinalAmount: floatPtr(800)}
	if got := withFinal.Discount(); got != 200 {
		t.Fatalf("discount should be 200, got %v", got)
	}

	withoutFinal := models.Transaction{TotalAmount: floatPtr(1000)}
	if got := withoutFinal.Discount(); got != 0 {
		t.Fatalf("absent finalAmount should contribute 0, got %v", got)
	}

	empty := models.Transaction{}
	if got := empty.Discount(); got != 0 {
		t.Fatalf("record without amounts should contribute 0, got %v", got)
	}
}

func floatPtr(v float64) *float64 { return &v }

// TestPaginationCompleteness walks every page of a sorted fixture with the
// compiled Skip/Limit and checks the union covers each record exactly once,
// in order. Duplicate dates exercise the id tie-break.
func TestPaginationCompleteness(t *testing.T) {
	const (
		totalRecords = 23
		limit        = 5
	)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	records := make([]models.Transaction, 0, totalRecords)
	for i := 1; i <= totalRecords; i++ {
		records = append(records, models.Transaction{
			ID:   int64(i),
			Date: base.AddDate(0, 0, i%4),
		})
	}

	// reference order: date desc, id asc
	sorted := append([]models.Transaction{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	totalPages := (totalRecords + limit - 1) / limit

	seen := map[int64]bool{}
	union := []int64{}
	for page := 1; page <= totalPages; page++ {
		q := CompileQuery(RawTransactionQuery{
			Page:  strconv.Itoa(page),
			Limit: strconv.Itoa(limit),
		})
		if q.Limit != limit || q.Skip != (page-1)*limit {
			t.Fatalf("page %d compiled to limit=%d skip=%d", page, q.Limit, q.Skip)
		}

		end := q.Skip + q.Limit
		if end > len(sorted) {
			end = len(sorted)
		}
		if q.Skip >= len(sorted) {
			t.Fatalf("page %d skips past the record set", page)
		}
		for _, rec := range sorted[q.Skip:end] {
			if seen[rec.ID] {
				t.Fatalf("record %d appears on more than one page", rec.ID)
			}
			seen[rec.ID] = true
			union = append(union, rec.ID)
		}
	}

	if len(union) != totalRecords {
		t.Fatalf("pages covered %d of %d records", len(union), totalRecords)
	}
	for i, rec := range sorted {
		if union[i] != rec.ID {
			t.Fatalf("union out of order at %d: got %d want %d", i, union[i], rec.ID)
		}
	}
}
