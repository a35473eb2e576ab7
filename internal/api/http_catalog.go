package api

import (
	"net/http"
	"strconv"
	"strings"

	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
)

// reservedQueryKeys are query parameters that never become column filters.
var reservedQueryKeys = map[string]struct{}{
	"page": {}, "page_size": {}, "sort_by": {}, "sort_desc": {},
	"ordering": {}, "search": {}, "q": {},
}

// listQuery reads paging, ordering, search and column filters from the
// query string. Unknown filter columns are dropped by the table.
func listQuery(c *gin.Context) (common.ListQuery, error) {
	var q common.ListQuery
	if err := c.ShouldBindQuery(&q.BaseParams); err != nil {
		return q, err
	}
	if ordering := strings.TrimSpace(c.Query("ordering")); ordering != "" {
		q.SortBy = strings.TrimPrefix(ordering, "-")
		q.SortDesc = strings.HasPrefix(ordering, "-")
	}
	q.Keyword = strings.TrimSpace(c.Query("search"))
	if q.Keyword == "" {
		q.Keyword = strings.TrimSpace(c.Query("q"))
	}
	for key, values := range c.Request.URL.Query() {
		if _, reserved := reservedQueryKeys[key]; reserved || len(values) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[key] = values[0]
	}
	q.Normalize()
	return q, nil
}

// pathID parses a positive numeric path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || value == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// resource mounts the generic catalogue routes of one record type.
type resource[T any, PT interface {
	*T
	db.Record
}] struct {
	h       *HTTPHandler
	group   *gin.RouterGroup
	catalog *service.Catalog[T, PT]
}

func newResource[T any, PT interface {
	*T
	db.Record
}](h *HTTPHandler, parent *gin.RouterGroup, path string, catalog *service.Catalog[T, PT]) *resource[T, PT] {
	return &resource[T, PT]{h: h, group: parent.Group(path), catalog: catalog}
}

// crud mounts list, detail and the staff-only writes.
func (r *resource[T, PT]) crud() *resource[T, PT] {
	return r.readable().creatable().editable().deletable()
}

func (r *resource[T, PT]) readable() *resource[T, PT] {
	r.group.GET("", r.list)
	r.group.GET("/:id", r.get)
	return r
}

func (r *resource[T, PT]) creatable() *resource[T, PT] {
	r.group.POST("", r.h.RequireStaff(), r.create)
	return r
}

func (r *resource[T, PT]) editable() *resource[T, PT] {
	r.group.PUT("/:id", r.h.RequireStaff(), r.update)
	r.group.PATCH("/:id", r.h.RequireStaff(), r.update)
	return r
}

func (r *resource[T, PT]) deletable() *resource[T, PT] {
	r.group.DELETE("/:id", r.h.RequireStaff(), r.remove)
	return r
}

func (r *resource[T, PT]) list(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, meta, err := r.catalog.List(ctx, CurrentViewer(c), q)
	if err != nil {
		respondError(c, err, "failed to list "+r.catalog.Name())
		return
	}
	c.JSON(http.StatusOK, dto.Page[T]{Items: items, Meta: meta})
}

func (r *resource[T, PT]) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := r.catalog.Get(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to load "+r.catalog.Name())
		return
	}
	c.JSON(http.StatusOK, record)
}

func (r *resource[T, PT]) create(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := r.catalog.Create(ctx, CurrentViewer(c), payload)
	if err != nil {
		respondError(c, err, "failed to create "+r.catalog.Name())
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (r *resource[T, PT]) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := r.catalog.Update(ctx, CurrentViewer(c), id, payload)
	if err != nil {
		respondError(c, err, "failed to update "+r.catalog.Name())
		return
	}
	c.JSON(http.StatusOK, record)
}

func (r *resource[T, PT]) remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := r.catalog.Delete(ctx, CurrentViewer(c), id); err != nil {
		respondError(c, err, "failed to delete "+r.catalog.Name())
		return
	}
	c.Status(http.StatusNoContent)
}
