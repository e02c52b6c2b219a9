package entity

import (
	"encoding/json"
	"math"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// PagingParameters - нормализованные параметры страницы
type PagingParameters struct {
	PageNumber int
	PageSize   int
}

// NewPagingParameters нормализует запрошенные значения: номер страницы
// не меньше 1, размер вне (0, 100] заменяется на 10. Ошибок не бывает
func NewPagingParameters(pageNumber, pageSize int) PagingParameters {
	if pageNumber <= 0 {
		pageNumber = DefaultPageNumber
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return PagingParameters{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset не переполняется: при огромном номере страницы возвращает math.MaxInt
func (p PagingParameters) Offset() int {
	if p.PageNumber <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

func (p PagingParameters) Limit() int {
	return p.PageSize
}

// PagedResult - одна страница выборки. Производные поля (TotalPages,
// HasPrevious, HasNext) вычисляются из номера страницы, размера и общего
// количества и не хранятся отдельно
type PagedResult[T any] struct {
	items       []T
	currentPage int
	pageSize    int
	totalItems  int64
	Links       []LinkDto
}

// NewPagedResult собирает страницу. Элементы сверх размера страницы отбрасываются
func NewPagedResult[T any](items []T, params PagingParameters, totalItems int64) *PagedResult[T] {
	params = NewPagingParameters(params.PageNumber, params.PageSize)
	if len(items) > params.PageSize {
		items = items[:params.PageSize]
	}
	if items == nil {
		items = []T{}
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return &PagedResult[T]{
		items:       items,
		currentPage: params.PageNumber,
		pageSize:    params.PageSize,
		totalItems:  totalItems,
	}
}

func (r *PagedResult[T]) Items() []T        { return r.items }
func (r *PagedResult[T]) CurrentPage() int  { return r.currentPage }
func (r *PagedResult[T]) PageSize() int     { return r.pageSize }
func (r *PagedResult[T]) TotalItems() int64 { return r.totalItems }

func (r *PagedResult[T]) TotalPages() int {
	if r.pageSize <= 0 {
		return 0
	}
	size := int64(r.pageSize)
	return int((r.totalItems + size - 1) / size)
}

func (r *PagedResult[T]) HasPrevious() bool {
	return r.currentPage > 1
}

func (r *PagedResult[T]) HasNext() bool {
	return r.currentPage < r.TotalPages()
}

type pagedResultJSON[T any] struct {
	Items       []T       `json:"items"`
	CurrentPage int       `json:"currentPage"`
	PageSize    int       `json:"pageSize"`
	TotalItems  int64     `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	HasPrevious bool      `json:"hasPrevious"`
	HasNext     bool      `json:"hasNext"`
	Links       []LinkDto `json:"links"`
}

func (r *PagedResult[T]) MarshalJSON() ([]byte, error) {
	links := r.Links
	if links == nil {
		links = []LinkDto{}
	}
	return json.Marshal(pagedResultJSON[T]{
		Items:       r.items,
		CurrentPage: r.currentPage,
		PageSize:    r.pageSize,
		TotalItems:  r.totalItems,
		TotalPages:  r.TotalPages(),
		HasPrevious: r.HasPrevious(),
		HasNext:     r.HasNext(),
		Links:       links,
	})
}
