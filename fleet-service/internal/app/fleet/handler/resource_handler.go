package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/service"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/metrics"
)

// ResourceHandler - HTTP обработчики CRUD для одного вида ресурса
type ResourceHandler[T any, PT entity.EntityPtr[T]] struct {
	service service.ResourceService[T, PT]
	links   *util.LinkBuilder
}

func NewResourceHandler[T any, PT entity.EntityPtr[T]](svc service.ResourceService[T, PT], links *util.LinkBuilder) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{
		service: svc,
		links:   links,
	}
}

// RegisterRoutes регистрирует маршруты ресурса в группе и шаблоны ссылок для них.
// Чтение требует ролей policy.Read, изменение - policy.Write
func (h *ResourceHandler[T, PT]) RegisterRoutes(group *gin.RouterGroup, auth *AuthMiddleware, policy AccessPolicy) {
	resource := h.service.Resource()
	collection := "/" + resource
	item := collection + "/:id"

	routes := group.Group("", auth.Authenticate())
	read := auth.RequireRole(policy.Read...)
	write := auth.RequireRole(policy.Write...)

	routes.GET(collection, read, h.List)
	routes.GET(item, read, h.Get)
	routes.POST(collection, write, h.Create)
	routes.PUT(item, write, h.Update)
	routes.DELETE(item, write, h.Delete)

	base := group.BasePath()
	h.links.Register(resource, util.ActionList, base+collection)
	h.links.Register(resource, util.ActionGet, base+item)
	h.links.Register(resource, util.ActionUpdate, base+item)
	h.links.Register(resource, util.ActionDelete, base+item)
}

func (h *ResourceHandler[T, PT]) List(c *gin.Context) {
	// Нечисловые значения приводятся к значениям по умолчанию так же, как выход за диапазон
	pageNumber, _ := strconv.Atoi(c.Query("pageNumber"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	page, err := h.service.List(c.Request.Context(), entity.NewPagingParameters(pageNumber, pageSize))
	h.record("list", err)
	if err != nil {
		respondError(c, err, "")
		return
	}

	page.Links = h.links.PaginationLinks(util.RequestBaseURL(c.Request), h.service.Resource(), page)
	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[T, PT]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	h.record("get", err)
	if err != nil {
		respondError(c, err, id.String())
		return
	}

	item.SetLinks(h.links.ResourceLinks(util.RequestBaseURL(c.Request), h.service.Resource(), id))
	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T, PT]) Create(c *gin.Context) {
	item := PT(new(T))
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), item)
	h.record("create", err)
	if err != nil {
		respondError(c, err, "")
		return
	}

	links := h.links.ResourceLinks(util.RequestBaseURL(c.Request), h.service.Resource(), created.GetID())
	created.SetLinks(links)
	if self := links[0].Href; self != "" {
		c.Header("Location", self)
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler[T, PT]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item := PT(new(T))
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	err := h.service.Update(c.Request.Context(), id, item)
	h.record("update", err)
	if err != nil {
		respondError(c, err, id.String())
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	h.record("delete", err)
	if err != nil {
		respondError(c, err, id.String())
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T, PT]) record(operation string, err error) {
	metrics.RecordResourceOperation(h.service.Resource(), operation, statusLabel(err))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
