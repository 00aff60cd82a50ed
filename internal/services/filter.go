package services

import (
	"strconv"
	"strings"

	"backend/internal/domain"
	"backend/internal/repositories"
	"backend/internal/utils"
)

const (
	defaultLimit = 10
	maxLimit     = 200
)

// RawTransactionQuery holds the query parameters exactly as they arrive on the
// wire. Everything is optional; compilation decides what counts.
type RawTransactionQuery struct {
	Search        string
	Region        string
	Gender        string
	Category      string
	PaymentMethod string
	Tags          string
	AgeRange      string
	MinAge        string
	MaxAge        string
	StartDate     string
	EndDate       string
	Sort          string
	Page          string
	Limit         string
}

// CompiledQuery bundles the predicate with sorting and paging so a request is
// compiled exactly once and never re-parsed downstream.
type CompiledQuery struct {
	Filter repositories.TransactionFilter
	Sort   domain.Sort
	Page   int
	Limit  int
	Skip   int
}

var sortSpecs = map[string]domain.Sort{
	"date_desc":        {Column: "date", Desc: true},
	"date_asc":         {Column: "date", Desc: false},
	"quantity_asc":     {Column: "quantity", Desc: false},
	"quantity_desc":    {Column: "quantity", Desc: true},
	"price_asc":        {Column: "final_amount", Desc: false},
	"price_desc":       {Column: "final_amount", Desc: true},
	"name_asc":         {Column: "customer_name", Desc: false},
	"name_desc":        {Column: "customer_name", Desc: true},
	"customerName_asc": {Column: "customer_name", Desc: false},
	"totalAmount_desc": {Column: "total_amount", Desc: true},
}

var defaultSort = domain.Sort{Column: "date", Desc: true}

// CompileQuery turns raw query parameters into a normalized predicate plus
// sort and paging. Pure function: same input, same output, no I/O.
//
// Validation policy (applied uniformly): malformed optional filter values
// degrade to "no constraint" instead of erroring, unknown sort keys fall back
// to newest-first, and page/limit are clamped rather than rejected. A
// well-formed ageRange takes precedence over minAge/maxAge.
func CompileQuery(raw RawTransactionQuery) CompiledQuery {
	f := repositories.TransactionFilter{
		Search:         utils.TrimOrEmpty(raw.Search),
		Regions:        splitParam(raw.Region),
		Genders:        splitParam(raw.Gender),
		Categories:     splitParam(raw.Category),
		PaymentMethods: splitParam(raw.PaymentMethod),
		Tags:           splitParam(raw.Tags),
	}

	f.MinAge, f.MaxAge = compileAgeBounds(raw.AgeRange, raw.MinAge, raw.MaxAge)

	if t, err := utils.ParseDate(raw.StartDate); raw.StartDate != "" && err == nil {
		f.StartDate = &t
	}
	if t, err := utils.ParseDate(raw.EndDate); raw.EndDate != "" && err == nil {
		f.EndDate = &t
	}

	sortSpec, ok := sortSpecs[utils.TrimOrEmpty(raw.Sort)]
	if !ok {
		sortSpec = defaultSort
	}

	page := parsePositive(raw.Page, 1)
	limit := parsePositive(raw.Limit, defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	return CompiledQuery{
		Filter: f,
		Sort:   sortSpec,
		Page:   page,
		Limit:  limit,
		Skip:   (page - 1) * limit,
	}
}

// compileAgeBounds resolves the two age parameter forms into inclusive bounds.
// Buckets are closed ranges except "60+", which is open-ended upward. A bucket
// that does not parse into two integers adds no constraint.
func compileAgeBounds(ageRange, minAge, maxAge string) (*int, *int) {
	if bucket := utils.TrimOrEmpty(ageRange); bucket != "" {
		if bucket == "60+" {
			lo := 60
			return &lo, nil
		}
		parts := strings.SplitN(bucket, "-", 2)
		if len(parts) == 2 {
			lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
			hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errLo == nil && errHi == nil {
				return &lo, &hi
			}
		}
		// malformed bucket: fall through to the numeric form
	}

	var lo, hi *int
	if n, err := strconv.Atoi(utils.TrimOrEmpty(minAge)); minAge != "" && err == nil {
		lo = &n
	}
	if n, err := strconv.Atoi(utils.TrimOrEmpty(maxAge)); maxAge != "" && err == nil {
		hi = &n
	}
	return lo, hi
}

func splitParam(raw string) []string {
	if utils.TrimOrEmpty(raw) == "" {
		return nil
	}
	parts := utils.SplitList(raw)
	if len(parts) == 0 {
		return nil
	}
	return parts
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(utils.TrimOrEmpty(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
