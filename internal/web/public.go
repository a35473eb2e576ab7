package web

import (
	"net/http"
	"strconv"

	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

const publicPageSize = 12

// pageParams reads ?page= for the public listings.
func pageParams(c *gin.Context, size int64) common.BaseParams {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	params := common.BaseParams{Page: page, PageSize: size}
	params.Normalize()
	return params
}

func (h *Handler) Home(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	featured := common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 6},
		Where:      map[string]interface{}{"is_featured": true},
	}
	projects, _, err := h.svc.Projects.Projects.List(ctx, viewer, featured)
	if err != nil {
		h.fail(c, err, "failed to load projects")
		return
	}
	events, _, err := h.svc.Events.Events.List(ctx, viewer, common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 3, SortBy: "start_date"},
	})
	if err != nil {
		h.fail(c, err, "failed to load events")
		return
	}
	announcements, _, err := h.svc.Events.Announcements.List(ctx, viewer, common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 5},
	})
	if err != nil {
		h.fail(c, err, "failed to load announcements")
		return
	}
	h.render(c, http.StatusOK, "home", "Home", gin.H{
		"Projects":      projects,
		"Events":        events,
		"Announcements": announcements,
	})
}

func (h *Handler) About(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	about, err := h.svc.Settings.About(ctx)
	if err != nil {
		h.fail(c, err, "failed to load about page")
		return
	}
	h.render(c, http.StatusOK, "about", about.Title, gin.H{"About": about})
}

func (h *Handler) Officials(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	officials, _, err := h.svc.Site.Officials.List(ctx, currentViewer(c), common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: common.MaxPageSize},
	})
	if err != nil {
		h.fail(c, err, "failed to load officials")
		return
	}
	h.render(c, http.StatusOK, "officials", "Officials", gin.H{"Officials": officials})
}

func (h *Handler) YouthJobs(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	jobs, meta, err := h.svc.Site.YouthJobs.List(ctx, currentViewer(c), common.ListQuery{
		BaseParams: pageParams(c, publicPageSize),
		Filters:    optionalFilter("job_type", c.Query("job_type")),
	})
	if err != nil {
		h.fail(c, err, "failed to load youth jobs")
		return
	}
	h.render(c, http.StatusOK, "youth_jobs", "Youth opportunities", gin.H{"Jobs": jobs, "Meta": meta})
}

func (h *Handler) ContactForm(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", "Contact us", gin.H{"Form": dto.ContactRequest{}})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var form dto.ContactRequest
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "contact", "Contact us", gin.H{"Form": form, "Error": "Please check the form."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.svc.Contact.Submit(ctx, currentViewer(c), form); err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.render(c, http.StatusBadRequest, "contact", "Contact us", gin.H{"Form": form, "Errors": fields})
			return
		}
		h.fail(c, err, "failed to send message")
		return
	}
	h.back(c, "/contact", "Thank you for your message. We will get back to you soon.")
}

func (h *Handler) Projects(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	q := common.ListQuery{
		BaseParams: pageParams(c, publicPageSize),
		Keyword:    c.Query("q"),
		Filters:    optionalFilter("status", c.Query("status")),
	}
	projects, meta, err := h.svc.Projects.Projects.List(ctx, currentViewer(c), q)
	if err != nil {
		h.fail(c, err, "failed to load projects")
		return
	}
	h.render(c, http.StatusOK, "projects", "Projects", gin.H{
		"Projects": projects,
		"Meta":     meta,
		"Statuses": db.ProjectStatuses,
		"Status":   c.Query("status"),
		"Query":    c.Query("q"),
	})
}

func (h *Handler) ProjectDetail(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	project, err := h.svc.Projects.Projects.Find(ctx, viewer, map[string]interface{}{"slug": c.Param("slug")})
	if err != nil {
		h.fail(c, err, "failed to load project")
		return
	}
	reports, _, err := h.svc.Projects.Reports.List(ctx, viewer, common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 10},
		Where:      map[string]interface{}{"project_id": project.ID},
	})
	if err != nil {
		h.fail(c, err, "failed to load project reports")
		return
	}
	h.render(c, http.StatusOK, "project_detail", project.Title, gin.H{"Project": project, "Reports": reports})
}

func (h *Handler) Events(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	events, meta, err := h.svc.Events.Events.List(ctx, currentViewer(c), common.ListQuery{
		BaseParams: pageParams(c, publicPageSize),
		Filters:    optionalFilter("event_type", c.Query("type")),
	})
	if err != nil {
		h.fail(c, err, "failed to load events")
		return
	}
	h.render(c, http.StatusOK, "events", "Events", gin.H{"Events": events, "Meta": meta, "Types": db.EventTypes})
}

func (h *Handler) EventDetail(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := h.svc.Events.Events.Find(ctx, currentViewer(c), map[string]interface{}{"slug": c.Param("slug")})
	if err != nil {
		h.fail(c, err, "failed to load event")
		return
	}
	h.render(c, http.StatusOK, "event_detail", event.Title, gin.H{"Event": event})
}

// RegisterForEvent signs the current account up for an event from its
// detail page.
func (h *Handler) RegisterForEvent(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)
	slug := c.Param("slug")

	event, err := h.svc.Events.Events.Find(ctx, viewer, map[string]interface{}{"slug": slug})
	if err != nil {
		h.fail(c, err, "failed to load event")
		return
	}
	var form dto.EventRegistrationRequest
	_ = c.ShouldBind(&form)
	if _, err := h.svc.Events.Register(ctx, viewer, event.ID, form); err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.render(c, http.StatusBadRequest, "event_detail", event.Title, gin.H{"Event": event, "Errors": fields})
			return
		}
		h.fail(c, err, "failed to register for event")
		return
	}
	h.back(c, "/events/"+slug, "You are registered for this event.")
}

func (h *Handler) Gallery(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, meta, err := h.svc.Gallery.Items.List(ctx, currentViewer(c), common.ListQuery{
		BaseParams: pageParams(c, 24),
		Filters:    optionalFilter("media_type", c.Query("type")),
	})
	if err != nil {
		h.fail(c, err, "failed to load gallery")
		return
	}
	h.render(c, http.StatusOK, "gallery", "Gallery", gin.H{"Items": items, "Meta": meta})
}

func (h *Handler) Sports(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)
	all := common.ListQuery{BaseParams: common.BaseParams{Page: 1, PageSize: common.MaxPageSize}}

	programs, _, err := h.svc.Sports.Programs.List(ctx, viewer, all)
	if err != nil {
		h.fail(c, err, "failed to load sport programs")
		return
	}
	teams, _, err := h.svc.Sports.Teams.List(ctx, viewer, all)
	if err != nil {
		h.fail(c, err, "failed to load teams")
		return
	}
	matches, _, err := h.svc.Sports.Matches.List(ctx, viewer, common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 10, SortBy: "match_date", SortDesc: true},
	})
	if err != nil {
		h.fail(c, err, "failed to load matches")
		return
	}
	h.render(c, http.StatusOK, "sports", "Sports", gin.H{"Programs": programs, "Teams": teams, "Matches": matches})
}

func (h *Handler) Reports(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	reports, meta, err := h.svc.Site.Reports.List(ctx, currentViewer(c), common.ListQuery{
		BaseParams: pageParams(c, publicPageSize),
		Filters:    optionalFilter("report_type", c.Query("type")),
	})
	if err != nil {
		h.fail(c, err, "failed to load reports")
		return
	}
	h.render(c, http.StatusOK, "reports", "Reports", gin.H{"Reports": reports, "Meta": meta})
}

// MemberDashboard shows the signed-in account, its member profile when it
// has one, its event registrations and points.
func (h *Handler) MemberDashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	account, err := h.svc.Accounts.Me(ctx, viewer)
	if err != nil {
		h.fail(c, err, "failed to load account")
		return
	}
	data := gin.H{"Account": account}
	if account.Role == db.RoleMember {
		profile, err := h.svc.Members.Me(ctx, viewer)
		if err != nil {
			h.fail(c, err, "failed to load profile")
			return
		}
		data["Profile"] = profile
		points, err := h.svc.Gamification.MyPoints(ctx, viewer)
		if err != nil {
			h.fail(c, err, "failed to load points")
			return
		}
		data["Points"] = points
	}
	registrations, _, err := h.svc.Events.Registrations.List(ctx, viewer, common.ListQuery{
		BaseParams: common.BaseParams{Page: 1, PageSize: 20},
	})
	if err != nil {
		h.fail(c, err, "failed to load registrations")
		return
	}
	data["Registrations"] = registrations
	h.render(c, http.StatusOK, "dashboard", "My dashboard", data)
}

// WardLookup feeds the registration form's ward dropdown.
func (h *Handler) WardLookup(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("constituency_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusOK, []db.Ward{})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	wards, err := h.svc.Accounts.Wards(ctx, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wards"})
		return
	}
	c.JSON(http.StatusOK, wards)
}

func optionalFilter(key, value string) map[string]string {
	if value == "" {
		return nil
	}
	return map[string]string{key: value}
}
