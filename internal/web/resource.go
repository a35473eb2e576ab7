package web

import (
	"context"
	"net/http"
	"strconv"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"

	"github.com/gin-gonic/gin"
)

// crud is the catalogue surface the panel needs. *service.Catalog
// satisfies it for every entity.
type crud[T any] interface {
	List(ctx context.Context, viewer access.Viewer, q common.ListQuery) ([]T, *common.Meta, error)
	Get(ctx context.Context, viewer access.Viewer, id uint) (*T, error)
	Create(ctx context.Context, viewer access.Viewer, payload []byte) (*T, error)
	Update(ctx context.Context, viewer access.Viewer, id uint, payload []byte) (*T, error)
	Delete(ctx context.Context, viewer access.Viewer, id uint) error
}

// manageResource serves list, create, edit and delete pages for one
// catalogue under /manage/<slug>.
type manageResource[T any] struct {
	h       *Handler
	slug    string
	title   string
	plural  string
	store   crud[T]
	fields  []formField
	columns []column
	// create replaces the default JSON create, for records that need an
	// uploaded file.
	create func(c *gin.Context, ctx context.Context, viewer access.Viewer, payload []byte) error
	// remove replaces the default delete.
	remove func(ctx context.Context, viewer access.Viewer, id uint) error
}

func (m *manageResource[T]) base() string {
	return "/manage/" + m.slug
}

func (m *manageResource[T]) multipart() bool {
	for _, f := range m.fields {
		if f.Kind == kindFile {
			return true
		}
	}
	return false
}

func (m *manageResource[T]) register(g *gin.RouterGroup) {
	rg := g.Group("/" + m.slug)
	rg.GET("", m.list)
	rg.GET("/new", m.newForm)
	rg.POST("", m.submitCreate)
	rg.GET("/:id/edit", m.editForm)
	rg.POST("/:id", m.submitUpdate)
	rg.POST("/:id/delete", m.submitDelete)
}

func (m *manageResource[T]) list(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	q := common.ListQuery{
		BaseParams: pageParams(c, 25),
		Keyword:    c.Query("q"),
	}
	items, meta, err := m.store.List(ctx, currentViewer(c), q)
	if err != nil {
		m.h.fail(c, err, "failed to list "+m.slug)
		return
	}
	rows, err := recordMaps(items)
	if err != nil {
		m.h.fail(c, err, "failed to render "+m.slug)
		return
	}
	m.h.render(c, http.StatusOK, "manage_list", m.plural, gin.H{
		"Base":    m.base(),
		"Columns": m.columns,
		"Rows":    rows,
		"Meta":    meta,
		"Query":   c.Query("q"),
	})
}

func (m *manageResource[T]) showForm(c *gin.Context, status int, id uint, values, errs map[string]string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	views, err := bindFields(ctx, currentViewer(c), m.fields, values, errs)
	if err != nil {
		m.h.fail(c, err, "failed to build form")
		return
	}
	action := m.base()
	heading := "New " + m.title
	if id != 0 {
		action = m.base() + "/" + strconv.FormatUint(uint64(id), 10)
		heading = "Edit " + m.title
	}
	m.h.render(c, status, "manage_form", heading, gin.H{
		"Base":      m.base(),
		"Action":    action,
		"Fields":    views,
		"Multipart": m.multipart(),
		"ID":        id,
		"Deletable": id != 0,
		"Errors":    errs,
	})
}

func (m *manageResource[T]) newForm(c *gin.Context) {
	m.showForm(c, http.StatusOK, 0, nil, nil)
}

func (m *manageResource[T]) editForm(c *gin.Context) {
	id, ok := m.h.pathID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := m.store.Get(ctx, currentViewer(c), id)
	if err != nil {
		m.h.fail(c, err, "failed to load "+m.slug)
		return
	}
	values, err := recordMap(record)
	if err != nil {
		m.h.fail(c, err, "failed to render "+m.slug)
		return
	}
	m.showForm(c, http.StatusOK, id, formValues(values, m.fields), nil)
}

func (m *manageResource[T]) submitCreate(c *gin.Context) {
	payload, errs, err := formPayload(c, m.fields)
	if err != nil {
		m.h.fail(c, err, "failed to read form")
		return
	}
	if errs != nil {
		m.showForm(c, http.StatusBadRequest, 0, postedValues(c, m.fields), errs)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	if m.create != nil {
		err = m.create(c, ctx, viewer, payload)
	} else {
		_, err = m.store.Create(ctx, viewer, payload)
	}
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			m.showForm(c, http.StatusBadRequest, 0, postedValues(c, m.fields), fields)
			return
		}
		m.h.fail(c, err, "failed to create "+m.slug)
		return
	}
	m.h.back(c, m.base(), m.title+" created.")
}

func (m *manageResource[T]) submitUpdate(c *gin.Context) {
	id, ok := m.h.pathID(c)
	if !ok {
		return
	}
	payload, errs, err := formPayload(c, m.fields)
	if err != nil {
		m.h.fail(c, err, "failed to read form")
		return
	}
	if errs != nil {
		m.showForm(c, http.StatusBadRequest, id, postedValues(c, m.fields), errs)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := m.store.Update(ctx, currentViewer(c), id, payload); err != nil {
		if fields, ok := fieldErrors(err); ok {
			m.showForm(c, http.StatusBadRequest, id, postedValues(c, m.fields), fields)
			return
		}
		m.h.fail(c, err, "failed to update "+m.slug)
		return
	}
	m.h.back(c, m.base(), m.title+" saved.")
}

func (m *manageResource[T]) submitDelete(c *gin.Context) {
	id, ok := m.h.pathID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	var err error
	if m.remove != nil {
		err = m.remove(ctx, viewer, id)
	} else {
		err = m.store.Delete(ctx, viewer, id)
	}
	if err != nil {
		m.h.fail(c, err, "failed to delete "+m.slug)
		return
	}
	m.h.back(c, m.base(), m.title+" deleted.")
}

// pathID reads :id, rendering the not-found page when it is malformed.
func (h *Handler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.render(c, http.StatusNotFound, "error", "Not found", gin.H{"Message": "The page you asked for does not exist."})
		return 0, false
	}
	return uint(id), true
}
