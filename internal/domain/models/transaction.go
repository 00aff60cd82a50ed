package models

import "time"

// Transaction is one retail sale record. Records are written only by the bulk
// loader and are immutable afterwards; the API reads them.
type Transaction struct {
	ID int64 `json:"id"`

	// Customer
	CustomerID     string `json:"customerID"`
	CustomerName   string `json:"customerName"`
	PhoneNumber    string `json:"phoneNumber"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	CustomerRegion string `json:"customerRegion"`
	CustomerType   string `json:"customerType"`

	// Product
	ProductID       string   `json:"productID"`
	ProductName     string   `json:"productName"`
	Brand           string   `json:"brand"`
	ProductCategory string   `json:"productCategory"`
	Tags            []string `json:"tags"`

	// Commerce. The two amount columns are nullable in the dataset, the rest
	// default to zero on import.
	Quantity           int      `json:"quantity"`
	PricePerUnit       float64  `json:"pricePerUnit"`
	DiscountPercentage float64  `json:"discountPercentage"`
	TotalAmount        *float64 `json:"totalAmount,omitempty"`
	FinalAmount        *float64 `json:"finalAmount,omitempty"`

	// Fulfillment
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	OrderStatus   string    `json:"orderStatus"`
	DeliveryType  string    `json:"deliveryType"`
	StoreID       string    `json:"storeID"`
	StoreLocation string    `json:"storeLocation"`
	SalespersonID string    `json:"salespersonID"`
	EmployeeName  string    `json:"employeeName"`
}

// Discount is the per-record discount contribution: totalAmount minus
// finalAmount, falling back to totalAmount when finalAmount is absent so the
// contribution is zero instead of negative.
func (t Transaction) Discount() float64 {
	if t.TotalAmount == nil {
		return 0
	}
	total := *t.TotalAmount
	if t.FinalAmount == nil {
		return 0
	}
	return total - *t.FinalAmount
}

// TransactionStats aggregates every record matching the current filter,
// independent of pagination.
type TransactionStats struct {
	TotalUnits    int64   `json:"totalUnits"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalDiscount float64 `json:"totalDiscount"`
}

// FilterOptions lists the distinct values observed per filterable field.
// Slices are always non-nil so an empty store serializes as empty arrays.
type FilterOptions struct {
	Regions        []string `json:"regions"`
	Categories     []string `json:"categories"`
	Genders        []string `json:"genders"`
	PaymentMethods []string `json:"paymentMethods"`
	Tags           []string `json:"tags"`
}
