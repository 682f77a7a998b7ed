package dto

type PaginationResult struct {
	CurrentPage   int64  `json:"currentPage"`
	Limit         int64  `json:"limit"`
	NumberOfPages int64  `json:"numberOfPages"`
	Next          *int64 `json:"next,omitempty"`
	Prev          *int64 `json:"prev,omitempty"`
}

type ListResult[T any] struct {
	Results          int              `json:"results"`
	PaginationResult PaginationResult `json:"paginationResult"`
	Data             []T              `json:"data"`
}

type ListResponse struct {
	Status           string           `json:"status"`
	Results          int              `json:"results"`
	PaginationResult PaginationResult `json:"paginationResult"`
	Data             interface{}      `json:"data"`
}
