package services

import (
	"context"
	"sync"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

const defaultQueryTimeout = 15 * time.Second

// TransactionService executes compiled queries. The zero value uses the shared
// DB connection through the repository fallback.
type TransactionService struct {
	Repo      repositories.TransactionRepository
	Timeout   time.Duration
	RequestID string
}

// TransactionList is one page plus the totals computed against the identical
// predicate.
type TransactionList struct {
	Data       []models.Transaction
	Pagination domain.Pagination
	Stats      models.TransactionStats
}

func (s TransactionService) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return defaultQueryTimeout
}

// List compiles the raw parameters once and runs the page fetch, the count and
// the stats aggregation in parallel against that single predicate. Zero
// matches yield an empty page with zeroed totals, not an error.
func (s TransactionService) List(ctx context.Context, raw RawTransactionQuery) (TransactionList, error) {
	q := CompileQuery(raw)

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var (
		wg    sync.WaitGroup
		data  []models.Transaction
		total int
		stats models.TransactionStats

		listErr, countErr, statsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		data, listErr = s.Repo.List(ctx, q.Filter, q.Sort, q.Limit, q.Skip)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.Repo.Count(ctx, q.Filter)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = s.Repo.Stats(ctx, q.Filter)
	}()
	wg.Wait()

	for _, err := range []error{listErr, countErr, statsErr} {
		if err != nil {
			utils.LogEvent(s.RequestID, "transactions", "list", "query failed: "+err.Error())
			return TransactionList{}, domain.InternalError{Msg: "transaction query failed", Err: err}
		}
	}

	if data == nil {
		data = []models.Transaction{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}

	return TransactionList{
		Data: data,
		Pagination: domain.Pagination{
			TotalItems:  total,
			TotalPages:  totalPages,
			CurrentPage: q.Page,
			Limit:       q.Limit,
		},
		Stats: stats,
	}, nil
}

// Options resolves the distinct filter choices over the unfiltered store. The
// five lookups are independent reads and run in parallel.
func (s TransactionService) Options(ctx context.Context) (models.FilterOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	opts := models.FilterOptions{
		Regions:        []string{},
		Categories:     []string{},
		Genders:        []string{},
		PaymentMethods: []string{},
		Tags:           []string{},
	}

	var wg sync.WaitGroup
	errs := make([]error, 5)

	fetch := func(i int, dst *[]string, column string) {
		defer wg.Done()
		values, err := s.Repo.Distinct(ctx, column)
		if err != nil {
			errs[i] = err
			return
		}
		*dst = values
	}

	wg.Add(5)
	go fetch(0, &opts.Regions, "customer_region")
	go fetch(1, &opts.Categories, "product_category")
	go fetch(2, &opts.Genders, "gender")
	go fetch(3, &opts.PaymentMethods, "payment_method")
	go func() {
		defer wg.Done()
		tags, err := s.Repo.DistinctTags(ctx)
		if err != nil {
			errs[4] = err
			return
		}
		opts.Tags = tags
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			utils.LogEvent(s.RequestID, "transactions", "options", "lookup failed: "+err.Error())
			return models.FilterOptions{}, domain.InternalError{Msg: "failed to fetch filter options", Err: err}
		}
	}
	return opts, nil
}
