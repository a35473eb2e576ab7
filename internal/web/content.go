package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/export"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// registrar is what manageResource exposes to the route table regardless
// of its record type.
type registrar interface {
	register(g *gin.RouterGroup)
}

func choicesOf[T any](store crud[T], label func(*T) (uint, string)) func(context.Context, access.Viewer) ([]choice, error) {
	return func(ctx context.Context, viewer access.Viewer) ([]choice, error) {
		items, _, err := store.List(ctx, viewer, common.ListQuery{
			BaseParams: common.BaseParams{Page: 1, PageSize: common.MaxPageSize},
		})
		if err != nil {
			return nil, err
		}
		out := make([]choice, 0, len(items))
		for i := range items {
			id, name := label(&items[i])
			out = append(out, choice{Value: strconv.FormatUint(uint64(id), 10), Label: name})
		}
		return sortedChoices(out), nil
	}
}

func (h *Handler) manageResources() []registrar {
	svc := h.svc
	projectChoices := choicesOf[db.Project](svc.Projects.Projects, func(p *db.Project) (uint, string) { return p.ID, p.Title })
	eventChoices := choicesOf[db.Event](svc.Events.Events, func(e *db.Event) (uint, string) { return e.ID, e.Title })

	return []registrar{
		&manageResource[db.Project]{
			h: h, slug: "projects", title: "Project", plural: "Projects",
			store: svc.Projects.Projects,
			fields: []formField{
				{Name: "title", Label: "Title", Kind: kindText, Required: true},
				{Name: "slug", Label: "Slug", Kind: kindText, Help: "Generated from the title when empty"},
				{Name: "description", Label: "Description", Kind: kindRich, Required: true},
				{Name: "objectives", Label: "Objectives", Kind: kindTextarea},
				{Name: "category_id", Label: "Category", Kind: kindRef, Choices: choicesOf[db.ProjectCategory](svc.Projects.Categories, func(v *db.ProjectCategory) (uint, string) { return v.ID, v.Name })},
				{Name: "county_id", Label: "County", Kind: kindRef, Choices: choicesOf[db.County](svc.Projects.Counties, func(v *db.County) (uint, string) { return v.ID, v.Name })},
				{Name: "ministry_id", Label: "Ministry", Kind: kindRef, Choices: choicesOf[db.Ministry](svc.Projects.Ministries, func(v *db.Ministry) (uint, string) { return v.ID, v.Name })},
				{Name: "status", Label: "Status", Kind: kindSelect, Options: db.ProjectStatuses},
				{Name: "budget_amount", Label: "Budget", Kind: kindNumber},
				{Name: "budget_currency", Label: "Currency", Kind: kindText},
				{Name: "allocated_amount", Label: "Allocated", Kind: kindNumber},
				{Name: "spent_amount", Label: "Spent", Kind: kindNumber},
				{Name: "start_date", Label: "Start date", Kind: kindDate},
				{Name: "end_date", Label: "End date", Kind: kindDate},
				{Name: "expected_end_date", Label: "Expected end date", Kind: kindDate},
				{Name: "featured_image", Label: "Featured image", Kind: kindText, Help: "Media key or URL"},
				{Name: "is_featured", Label: "Featured", Kind: kindCheckbox},
				{Name: "is_public", Label: "Public", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "title", Label: "Title"},
				{Name: "status", Label: "Status", Kind: "label"},
				{Name: "budget_amount", Label: "Budget", Kind: "money"},
				{Name: "budget_utilization", Label: "Utilization %"},
				{Name: "start_date", Label: "Start", Kind: "date"},
				{Name: "is_public", Label: "Public", Kind: "bool"},
			},
		},
		&manageResource[db.Event]{
			h: h, slug: "events", title: "Event", plural: "Events",
			store: svc.Events.Events,
			fields: []formField{
				{Name: "title", Label: "Title", Kind: kindText, Required: true},
				{Name: "slug", Label: "Slug", Kind: kindText, Help: "Generated from the title when empty"},
				{Name: "description", Label: "Description", Kind: kindRich, Required: true},
				{Name: "event_type", Label: "Type", Kind: kindSelect, Options: db.EventTypes, Required: true},
				{Name: "venue", Label: "Venue", Kind: kindText},
				{Name: "is_online", Label: "Online", Kind: kindCheckbox},
				{Name: "online_link", Label: "Online link", Kind: kindURL},
				{Name: "start_date", Label: "Starts", Kind: kindDateTime, Required: true},
				{Name: "end_date", Label: "Ends", Kind: kindDateTime},
				{Name: "registration_deadline", Label: "Registration deadline", Kind: kindDateTime},
				{Name: "requires_registration", Label: "Requires registration", Kind: kindCheckbox},
				{Name: "max_participants", Label: "Max participants", Kind: kindInt, Help: "Leave empty for no limit"},
				{Name: "registration_fee", Label: "Registration fee", Kind: kindNumber},
				{Name: "project_id", Label: "Project", Kind: kindRef, Choices: projectChoices},
				{Name: "featured_image", Label: "Featured image", Kind: kindText},
				{Name: "is_published", Label: "Published", Kind: kindCheckbox},
				{Name: "is_featured", Label: "Featured", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "title", Label: "Title"},
				{Name: "event_type", Label: "Type", Kind: "label"},
				{Name: "start_date", Label: "Starts", Kind: "datetime"},
				{Name: "registered_count", Label: "Registered"},
				{Name: "is_published", Label: "Published", Kind: "bool"},
			},
		},
		&manageResource[db.GalleryItem]{
			h: h, slug: "gallery", title: "Gallery item", plural: "Gallery",
			store: svc.Gallery.Items,
			fields: []formField{
				{Name: "title", Label: "Title", Kind: kindText, Required: true},
				{Name: "description", Label: "Description", Kind: kindTextarea},
				{Name: "media_type", Label: "Media type", Kind: kindSelect, Options: []string{db.MediaImage, db.MediaVideo}, Required: true},
				{Name: "file", Label: "File", Kind: kindFile, Help: "Images, or video files"},
				{Name: "url", Label: "Video link", Kind: kindURL, Help: "YouTube or Vimeo link for videos without a file"},
				{Name: "project_id", Label: "Project", Kind: kindRef, Choices: projectChoices},
				{Name: "event_id", Label: "Event", Kind: kindRef, Choices: eventChoices},
				{Name: "year", Label: "Year", Kind: kindInt},
				{Name: "tags", Label: "Tags", Kind: kindText, Help: "Comma separated"},
				{Name: "is_featured", Label: "Featured", Kind: kindCheckbox},
				{Name: "is_public", Label: "Public", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "title", Label: "Title"},
				{Name: "media_type", Label: "Type", Kind: "label"},
				{Name: "year", Label: "Year"},
				{Name: "is_public", Label: "Public", Kind: "bool"},
			},
			create: h.createGalleryItem,
			remove: svc.Gallery.Delete,
		},
		&manageResource[db.SportProgram]{
			h: h, slug: "sport-programs", title: "Sport program", plural: "Sport programs",
			store: svc.Sports.Programs,
			fields: []formField{
				{Name: "name", Label: "Name", Kind: kindText, Required: true},
				{Name: "sport_type", Label: "Sport", Kind: kindText, Required: true},
				{Name: "description", Label: "Description", Kind: kindTextarea},
				{Name: "logo", Label: "Logo", Kind: kindText},
				{Name: "is_active", Label: "Active", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "name", Label: "Name"},
				{Name: "sport_type", Label: "Sport"},
				{Name: "is_active", Label: "Active", Kind: "bool"},
			},
		},
		&manageResource[db.Team]{
			h: h, slug: "teams", title: "Team", plural: "Teams",
			store: svc.Sports.Teams,
			fields: []formField{
				{Name: "name", Label: "Name", Kind: kindText, Required: true},
				{Name: "sport_program_id", Label: "Program", Kind: kindRef, Required: true,
					Choices: choicesOf[db.SportProgram](svc.Sports.Programs, func(v *db.SportProgram) (uint, string) { return v.ID, v.Name })},
				{Name: "description", Label: "Description", Kind: kindTextarea},
				{Name: "logo", Label: "Logo", Kind: kindText},
				{Name: "coach_name", Label: "Coach", Kind: kindText},
				{Name: "coach_phone", Label: "Coach phone", Kind: kindText},
				{Name: "is_active", Label: "Active", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "name", Label: "Name"},
				{Name: "coach_name", Label: "Coach"},
				{Name: "is_active", Label: "Active", Kind: "bool"},
			},
		},
		&manageResource[db.Official]{
			h: h, slug: "officials", title: "Official", plural: "Officials",
			store: svc.Site.Officials,
			fields: []formField{
				{Name: "name", Label: "Name", Kind: kindText, Required: true},
				{Name: "position", Label: "Position", Kind: kindText, Required: true},
				{Name: "photo", Label: "Photo", Kind: kindText},
				{Name: "bio", Label: "Biography", Kind: kindTextarea},
				{Name: "phone", Label: "Phone", Kind: kindText},
				{Name: "email", Label: "Email", Kind: kindEmail},
				{Name: "order", Label: "Display order", Kind: kindInt},
				{Name: "is_published", Label: "Published", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "name", Label: "Name"},
				{Name: "position", Label: "Position"},
				{Name: "order", Label: "Order"},
				{Name: "is_published", Label: "Published", Kind: "bool"},
			},
		},
		&manageResource[db.YouthJob]{
			h: h, slug: "youth-jobs", title: "Youth job", plural: "Youth jobs",
			store: svc.Site.YouthJobs,
			fields: []formField{
				{Name: "title", Label: "Title", Kind: kindText, Required: true},
				{Name: "organization", Label: "Organization", Kind: kindText},
				{Name: "description", Label: "Description", Kind: kindRich},
				{Name: "location", Label: "Location", Kind: kindText},
				{Name: "job_type", Label: "Job type", Kind: kindText},
				{Name: "application_url", Label: "Application link", Kind: kindURL},
				{Name: "application_email", Label: "Application email", Kind: kindEmail},
				{Name: "deadline", Label: "Deadline", Kind: kindDate},
				{Name: "is_published", Label: "Published", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "title", Label: "Title"},
				{Name: "organization", Label: "Organization"},
				{Name: "deadline", Label: "Deadline", Kind: "date"},
				{Name: "is_published", Label: "Published", Kind: "bool"},
			},
		},
		&manageResource[db.Announcement]{
			h: h, slug: "announcements", title: "Announcement", plural: "Announcements",
			store: svc.Events.Announcements,
			fields: []formField{
				{Name: "title", Label: "Title", Kind: kindText, Required: true},
				{Name: "slug", Label: "Slug", Kind: kindText, Help: "Generated from the title when empty"},
				{Name: "content", Label: "Content", Kind: kindRich, Required: true},
				{Name: "publish_date", Label: "Publish date", Kind: kindDateTime},
				{Name: "is_published", Label: "Published", Kind: kindCheckbox},
				{Name: "is_featured", Label: "Featured", Kind: kindCheckbox},
			},
			columns: []column{
				{Name: "title", Label: "Title"},
				{Name: "publish_date", Label: "Publish date", Kind: "datetime"},
				{Name: "is_published", Label: "Published", Kind: "bool"},
			},
		},
	}
}

// createGalleryItem stores the uploaded file with the item. A video item
// may instead carry only a link.
func (h *Handler) createGalleryItem(c *gin.Context, ctx context.Context, viewer access.Viewer, payload []byte) error {
	item := h.svc.Gallery.Items.New()
	if err := json.Unmarshal(payload, item); err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		_, err := h.svc.Gallery.Items.Create(ctx, viewer, payload)
		return err
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = h.svc.Gallery.Upload(ctx, viewer, item, header.Filename, file)
	return err
}

var settingsFields = []formField{
	{Name: "site_name", Label: "Site name", Kind: kindText, Required: true},
	{Name: "registration_number", Label: "Registration number", Kind: kindText},
	{Name: "logo", Label: "Logo", Kind: kindFile},
	{Name: "favicon", Label: "Favicon", Kind: kindFile},
	{Name: "hotline_1", Label: "Hotline 1", Kind: kindText},
	{Name: "hotline_2", Label: "Hotline 2", Kind: kindText},
	{Name: "hotline_3", Label: "Hotline 3", Kind: kindText},
	{Name: "email", Label: "Email", Kind: kindEmail},
	{Name: "address", Label: "Address", Kind: kindTextarea},
	{Name: "box_number", Label: "P.O. Box", Kind: kindText},
	{Name: "facebook_url", Label: "Facebook", Kind: kindURL},
	{Name: "twitter_url", Label: "Twitter", Kind: kindURL},
	{Name: "instagram_url", Label: "Instagram", Kind: kindURL},
	{Name: "youtube_url", Label: "YouTube", Kind: kindURL},
	{Name: "linkedin_url", Label: "LinkedIn", Kind: kindURL},
}

var aboutFields = []formField{
	{Name: "title", Label: "Title", Kind: kindText, Required: true},
	{Name: "intro", Label: "Introduction", Kind: kindRich},
	{Name: "mission", Label: "Mission", Kind: kindRich},
	{Name: "vision", Label: "Vision", Kind: kindRich},
	{Name: "core_values", Label: "Core values", Kind: kindRich},
	{Name: "history", Label: "History", Kind: kindRich},
	{Name: "objectives", Label: "Objectives", Kind: kindRich},
}

func (h *Handler) singletonForm(c *gin.Context, status int, title, action string, fields []formField, values, errs map[string]string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	views, err := bindFields(ctx, currentViewer(c), fields, values, errs)
	if err != nil {
		h.fail(c, err, "failed to build form")
		return
	}
	multipart := false
	for _, f := range fields {
		multipart = multipart || f.Kind == kindFile
	}
	h.render(c, status, "manage_form", title, gin.H{
		"Base":      action,
		"Action":    action,
		"Fields":    views,
		"Multipart": multipart,
		"Errors":    errs,
		"Singleton": true,
	})
}

func (h *Handler) SettingsForm(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.Settings.Settings(ctx)
	if err != nil {
		h.fail(c, err, "failed to load settings")
		return
	}
	values, err := recordMap(settings)
	if err != nil {
		h.fail(c, err, "failed to render settings")
		return
	}
	h.singletonForm(c, http.StatusOK, "Site settings", "/manage/settings", settingsFields, formValues(values, settingsFields), nil)
}

// SaveSettings stores the text fields, then any uploaded logo or favicon.
func (h *Handler) SaveSettings(c *gin.Context) {
	payload, errs, err := formPayload(c, settingsFields)
	if err == nil && errs == nil {
		ctx, cancel := requestContext(c)
		defer cancel()
		viewer := currentViewer(c)

		_, err = h.svc.Settings.SaveSettings(ctx, viewer, payload)
		for _, field := range []string{"logo", "favicon"} {
			if err != nil {
				break
			}
			header, ferr := c.FormFile(field)
			if ferr != nil {
				continue
			}
			file, ferr := header.Open()
			if ferr != nil {
				err = ferr
				break
			}
			_, err = h.svc.Settings.UploadBranding(ctx, viewer, field, header.Filename, file)
			file.Close()
		}
		if err == nil {
			h.back(c, "/manage/settings", "Settings saved.")
			return
		}
		errs, _ = fieldErrors(err)
	}
	if errs == nil {
		h.fail(c, err, "failed to save settings")
		return
	}
	h.singletonForm(c, http.StatusBadRequest, "Site settings", "/manage/settings", settingsFields, postedValues(c, settingsFields), errs)
}

func (h *Handler) AboutForm(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	about, err := h.svc.Settings.About(ctx)
	if err != nil {
		h.fail(c, err, "failed to load about page")
		return
	}
	values, err := recordMap(about)
	if err != nil {
		h.fail(c, err, "failed to render about page")
		return
	}
	h.singletonForm(c, http.StatusOK, "About page", "/manage/about", aboutFields, formValues(values, aboutFields), nil)
}

func (h *Handler) SaveAbout(c *gin.Context) {
	payload, errs, err := formPayload(c, aboutFields)
	if err == nil && errs == nil {
		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err = h.svc.Settings.SaveAbout(ctx, currentViewer(c), payload); err == nil {
			h.back(c, "/manage/about", "About page saved.")
			return
		}
		errs, _ = fieldErrors(err)
	}
	if errs == nil {
		h.fail(c, err, "failed to save about page")
		return
	}
	h.singletonForm(c, http.StatusBadRequest, "About page", "/manage/about", aboutFields, postedValues(c, aboutFields), errs)
}

func (h *Handler) sendSheet(c *gin.Context, prefix string, sheet export.Sheet) {
	body, err := sheet.Bytes()
	if err != nil {
		h.fail(c, err, "failed to build "+prefix+" export")
		return
	}
	logrus.WithFields(logrus.Fields{
		"export":     prefix,
		"rows":       len(sheet.Rows),
		"account_id": currentViewer(c).AccountID,
	}).Info("spreadsheet exported")
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(prefix, time.Now())+`"`)
	c.Data(http.StatusOK, export.ContentType, body)
}

func (h *Handler) ExportAccounts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	accounts, err := pager(func(p common.BaseParams) ([]db.Account, *common.Meta, error) {
		return h.svc.Accounts.ListAccounts(ctx, viewer, &dto.AccountQuery{BaseParams: p, Role: c.Query("role")})
	})
	if err != nil {
		h.fail(c, err, "failed to export accounts")
		return
	}
	h.sendSheet(c, "accounts", export.Accounts(accounts))
}

func (h *Handler) ExportDonations(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	donations, err := pager(func(p common.BaseParams) ([]db.Donation, *common.Meta, error) {
		return h.svc.Funding.Donations.List(ctx, viewer, common.ListQuery{BaseParams: p})
	})
	if err != nil {
		h.fail(c, err, "failed to export donations")
		return
	}
	h.sendSheet(c, "donations", export.Donations(donations))
}

func (h *Handler) ExportAudit(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	viewer := currentViewer(c)

	entries, err := pager(func(p common.BaseParams) ([]db.AuditLog, *common.Meta, error) {
		return h.svc.Audit.List(ctx, viewer, &dto.AuditQuery{BaseParams: p})
	})
	if err != nil {
		h.fail(c, err, "failed to export audit log")
		return
	}
	h.sendSheet(c, "audit-log", export.AuditLogs(entries))
}
