package util

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fleetcare/fleet-service/internal/app/fleet/entity"
)

// Действия, для которых регистрируются шаблоны маршрутов
const (
	ActionList   = "list"
	ActionGet    = "get"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Pager - метаданные страницы, нужные для построения ссылок навигации
type Pager interface {
	CurrentPage() int
	PageSize() int
	TotalPages() int
	HasPrevious() bool
	HasNext() bool
}

// LinkBuilder строит HATEOAS-ссылки по шаблонам маршрутов вида
// "/api/v1/vehicles/:id". Шаблоны регистрируются при настройке роутера,
// после этого билдер только читается
type LinkBuilder struct {
	routes map[string]string
}

func NewLinkBuilder() *LinkBuilder {
	return &LinkBuilder{routes: make(map[string]string)}
}

// Register запоминает шаблон маршрута для ресурса и действия
func (b *LinkBuilder) Register(resource, action, template string) {
	b.routes[routeKey(resource, action)] = template
}

// Href подставляет параметры в шаблон. Если шаблон не найден, возвращается пустая строка
func (b *LinkBuilder) Href(base, resource, action string, params map[string]string, query url.Values) string {
	template, ok := b.routes[routeKey(resource, action)]
	if !ok || template == "" {
		return ""
	}

	path := template
	for name, value := range params {
		path = strings.ReplaceAll(path, ":"+name, url.PathEscape(value))
	}

	href := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		href += "?" + query.Encode()
	}
	return href
}

// PaginationLinks возвращает first/prev при наличии предыдущей страницы
// и next/last при наличии следующей
func (b *LinkBuilder) PaginationLinks(base, resource string, page Pager) []entity.LinkDto {
	links := make([]entity.LinkDto, 0, 4)

	pageLink := func(rel string, number int) entity.LinkDto {
		query := url.Values{}
		query.Set("pageNumber", strconv.Itoa(number))
		query.Set("pageSize", strconv.Itoa(page.PageSize()))
		return entity.LinkDto{
			Href:   b.Href(base, resource, ActionList, nil, query),
			Rel:    rel,
			Method: http.MethodGet,
		}
	}

	if page.HasPrevious() {
		links = append(links, pageLink("first", 1), pageLink("prev", page.CurrentPage()-1))
	}
	if page.HasNext() {
		links = append(links, pageLink("next", page.CurrentPage()+1), pageLink("last", page.TotalPages()))
	}

	return links
}

// ResourceLinks возвращает ссылки self, update и delete для одной сущности
func (b *LinkBuilder) ResourceLinks(base, resource string, id uuid.UUID) []entity.LinkDto {
	params := map[string]string{"id": id.String()}
	return []entity.LinkDto{
		{Href: b.Href(base, resource, ActionGet, params, nil), Rel: "self", Method: http.MethodGet},
		{Href: b.Href(base, resource, ActionUpdate, params, nil), Rel: "update", Method: http.MethodPut},
		{Href: b.Href(base, resource, ActionDelete, params, nil), Rel: "delete", Method: http.MethodDelete},
	}
}

// RequestBaseURL возвращает scheme://host входящего запроса
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}

func routeKey(resource, action string) string {
	return resource + ":" + action
}
