package handlers

import (
	"net/http"
	"sync"
	"time"

	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	timeoutMu    sync.RWMutex
	queryTimeout time.Duration
)

// SetQueryTimeout installs the configured per-request query deadline. Zero
// keeps the service default.
func SetQueryTimeout(d time.Duration) {
	timeoutMu.Lock()
	queryTimeout = d
	timeoutMu.Unlock()
}

func getQueryTimeout() time.Duration {
	timeoutMu.RLock()
	defer timeoutMu.RUnlock()
	return queryTimeout
}

func newTransactionService(c *gin.Context) services.TransactionService {
	return services.TransactionService{
		Timeout:   getQueryTimeout(),
		RequestID: middleware.GetRequestID(c),
	}
}

func rawQueryFromRequest(c *gin.Context) services.RawTransactionQuery {
	return services.RawTransactionQuery{
		Search:        c.Query("search"),
		Region:        c.Query("region"),
		Gender:        c.Query("gender"),
		Category:      c.Query("category"),
		PaymentMethod: c.Query("paymentMethod"),
		Tags:          c.Query("tags"),
		AgeRange:      c.Query("ageRange"),
		MinAge:        c.Query("minAge"),
		MaxAge:        c.Query("maxAge"),
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		Sort:          c.Query("sort"),
		Page:          c.Query("page"),
		Limit:         c.Query("limit"),
	}
}

// GET /api/transactions
func ListTransactions(c *gin.Context) {
	svc := newTransactionService(c)

	result, err := svc.List(c.Request.Context(), rawQueryFromRequest(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Data,
		"pagination": result.Pagination,
		"stats":      result.Stats,
	})
}

// GET /api/transactions/options
func GetTransactionOptions(c *gin.Context) {
	svc := newTransactionService(c)

	options, err := svc.Options(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    options,
	})
}

// GET /api/transactions/report
func GetSalesReportPDF(c *gin.Context) {
	svc := services.ReportService{Transactions: newTransactionService(c)}

	pdf, filename, err := svc.GenerateSalesReport(c.Request.Context(), rawQueryFromRequest(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
