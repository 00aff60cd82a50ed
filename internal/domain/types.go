package domain

// Pagination carries paging metadata returned alongside list results.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// Sort defines a whitelisted column plus direction.
type Sort struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}
