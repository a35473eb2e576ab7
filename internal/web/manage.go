package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerManage(g *gin.RouterGroup) {
	g.GET("/", h.ManageDashboard)

	g.GET("/approvals", h.Approvals)
	g.POST("/accounts/:id/approve", h.gateAction("approve"))
	g.POST("/accounts/:id/reject", h.gateAction("reject"))
	g.POST("/accounts/:id/verify", h.gateAction("verify"))

	g.GET("/users", h.Users)
	g.GET("/users/new", h.NewUser)
	g.POST("/users", h.CreateUser)
	g.GET("/users/:id/edit", h.EditUser)
	g.POST("/users/:id", h.UpdateUser)

	for _, r := range h.manageResources() {
		r.register(g)
	}

	g.GET("/settings", h.SettingsForm)
	g.POST("/settings", h.SaveSettings)
	g.GET("/about", h.AboutForm)
	g.POST("/about", h.SaveAbout)

	g.GET("/messages", h.Messages)
	g.POST("/messages/:id/status", h.MessageStatus)
	g.POST("/messages/:id/delete", h.DeleteMessage)

	g.GET("/audit", h.AuditLog)

	g.GET("/export/accounts.xlsx", h.ExportAccounts)
	g.GET("/export/donations.xlsx", h.ExportDonations)
	g.GET("/export/audit.xlsx", h.ExportAudit)
}

func (h *Handler) ManageDashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	overview, err := h.svc.Dashboard.Overview(ctx, currentViewer(c))
	if err != nil {
		h.fail(c, err, "failed to load dashboard")
		return
	}
	h.render(c, http.StatusOK, "manage_dashboard", "Dashboard", gin.H{"Overview": overview})
}

var approvalQueues = map[string]string{
	db.RoleMember:         "Pending members",
	db.RoleDonor:          "Pending donors",
	db.RoleCountyOfficial: "Unverified county officials",
}

// Approvals lists accounts of one role whose gate is still closed.
func (h *Handler) Approvals(c *gin.Context) {
	role := c.DefaultQuery("role", db.RoleMember)
	title, ok := approvalQueues[role]
	if !ok {
		role, title = db.RoleMember, approvalQueues[db.RoleMember]
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	accounts, meta, err := h.svc.Accounts.PendingAccounts(ctx, currentViewer(c), role, pageParams(c, 25))
	if err != nil {
		h.fail(c, err, "failed to load approval queue")
		return
	}
	h.render(c, http.StatusOK, "manage_approvals", title, gin.H{
		"Role":     role,
		"Accounts": accounts,
		"Meta":     meta,
		"Verify":   role == db.RoleCountyOfficial,
	})
}

func (h *Handler) gateAction(action string) gin.HandlerFunc {
	apply := map[string]func(context.Context, access.Viewer, uint) (*db.Account, error){
		"approve": h.svc.Accounts.Approve,
		"reject":  h.svc.Accounts.Reject,
		"verify":  h.svc.Accounts.Verify,
	}[action]
	done := map[string]string{
		"approve": "Account approved.",
		"reject":  "Account rejected.",
		"verify":  "County official verified.",
	}[action]

	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		account, err := apply(ctx, currentViewer(c), id)
		if err != nil {
			h.fail(c, err, "failed to "+action+" account")
			return
		}
		h.back(c, "/manage/approvals?role="+account.Role, done)
	}
}

var userFields = []formField{
	{Name: "username", Label: "Username", Kind: kindText, Required: true},
	{Name: "email", Label: "Email", Kind: kindEmail},
	{Name: "first_name", Label: "First name", Kind: kindText},
	{Name: "last_name", Label: "Last name", Kind: kindText},
	{Name: "phone_number", Label: "Phone number", Kind: kindText},
	{Name: "role", Label: "Role", Kind: kindSelect, Options: db.Roles, Required: true},
	{Name: "department", Label: "Department", Kind: kindSelect, Options: db.CountyDepartments, Help: "County officials only"},
	{Name: "password", Label: "Password", Kind: kindPassword, Help: "Leave blank to keep the current password"},
	{Name: "is_active", Label: "Active", Kind: kindCheckbox},
	{Name: "is_approved", Label: "Approved", Kind: kindCheckbox},
	{Name: "is_verified", Label: "Verified", Kind: kindCheckbox},
}

// userEditFields drops the username, which cannot change after creation.
var userEditFields = userFields[1:]

func (h *Handler) Users(c *gin.Context) {
	query := &dto.AccountQuery{
		BaseParams: pageParams(c, 25),
		Role:       c.Query("role"),
		Keyword:    c.Query("q"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	accounts, meta, err := h.svc.Accounts.ListAccounts(ctx, currentViewer(c), query)
	if err != nil {
		h.fail(c, err, "failed to list users")
		return
	}
	h.render(c, http.StatusOK, "manage_users", "Users", gin.H{
		"Accounts": accounts,
		"Meta":     meta,
		"Roles":    db.Roles,
		"Role":     query.Role,
		"Query":    query.Keyword,
	})
}

func (h *Handler) userForm(c *gin.Context, status int, id uint, values, errs map[string]string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	fields, action, heading := userFields, "/manage/users", "New user"
	if id != 0 {
		fields = userEditFields
		action = "/manage/users/" + strconv.FormatUint(uint64(id), 10)
		heading = "Edit user"
	}
	if values == nil && id == 0 {
		values = map[string]string{"is_active": "true", "role": db.RoleMember}
	}
	views, err := bindFields(ctx, currentViewer(c), fields, values, errs)
	if err != nil {
		h.fail(c, err, "failed to build form")
		return
	}
	h.render(c, status, "manage_form", heading, gin.H{
		"Base":   "/manage/users",
		"Action": action,
		"Fields": views,
		"ID":     id,
		"Errors": errs,
	})
}

func (h *Handler) NewUser(c *gin.Context) {
	h.userForm(c, http.StatusOK, 0, nil, nil)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req dto.AccountCreateRequest
	if err := bindForm(c, userFields, &req); err != nil {
		h.userForm(c, http.StatusBadRequest, 0, postedValues(c, userFields), err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.svc.Accounts.CreateAccount(ctx, currentViewer(c), req); err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.userForm(c, http.StatusBadRequest, 0, postedValues(c, userFields), fields)
			return
		}
		h.fail(c, err, "failed to create user")
		return
	}
	h.back(c, "/manage/users", "User created.")
}

func (h *Handler) EditUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.GetAccount(ctx, currentViewer(c), id)
	if err != nil {
		h.fail(c, err, "failed to load user")
		return
	}
	values, err := recordMap(account)
	if err != nil {
		h.fail(c, err, "failed to render user")
		return
	}
	h.userForm(c, http.StatusOK, id, formValues(values, userEditFields), nil)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.AccountUpdateRequest
	if err := bindForm(c, userEditFields, &req); err != nil {
		h.userForm(c, http.StatusBadRequest, id, postedValues(c, userEditFields), err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.svc.Accounts.UpdateAccount(ctx, currentViewer(c), id, req); err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.userForm(c, http.StatusBadRequest, id, postedValues(c, userEditFields), fields)
			return
		}
		h.fail(c, err, "failed to update user")
		return
	}
	h.back(c, "/manage/users", "User saved.")
}

// bindForm decodes a panel form into a request struct through its JSON
// field names.
func bindForm(c *gin.Context, fields []formField, target interface{}) map[string]string {
	payload, errs, err := formPayload(c, fields)
	if errs != nil {
		return errs
	}
	if err == nil {
		err = json.Unmarshal(payload, target)
	}
	if err != nil {
		return map[string]string{"form": "the form could not be read"}
	}
	return nil
}

var contactStatusLabels = optionChoices(db.MessageStatuses)

func (h *Handler) Messages(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	q := common.ListQuery{
		BaseParams: pageParams(c, 25),
		Filters:    optionalFilter("status", c.Query("status")),
	}
	messages, meta, err := h.svc.Contact.List(ctx, currentViewer(c), q)
	if err != nil {
		h.fail(c, err, "failed to list messages")
		return
	}
	h.render(c, http.StatusOK, "manage_messages", "Contact messages", gin.H{
		"Messages": messages,
		"Meta":     meta,
		"Statuses": contactStatusLabels,
		"Status":   c.Query("status"),
	})
}

func (h *Handler) MessageStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.svc.Contact.SetStatus(ctx, currentViewer(c), id, c.PostForm("status")); err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.back(c, "/manage/messages", "Status not changed: "+fields["status"])
			return
		}
		h.fail(c, err, "failed to update message")
		return
	}
	h.back(c, "/manage/messages", "Message updated.")
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Contact.Delete(ctx, currentViewer(c), id); err != nil {
		h.fail(c, err, "failed to delete message")
		return
	}
	h.back(c, "/manage/messages", "Message deleted.")
}

func (h *Handler) AuditLog(c *gin.Context) {
	query := &dto.AuditQuery{
		BaseParams: pageParams(c, 50),
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	entries, meta, err := h.svc.Audit.List(ctx, currentViewer(c), query)
	if err != nil {
		h.fail(c, err, "failed to load audit log")
		return
	}
	h.render(c, http.StatusOK, "manage_audit", "Audit log", gin.H{
		"Entries": entries,
		"Meta":    meta,
		"Actions": db.AuditActions,
		"Action":  query.Action,
	})
}

// pager walks a paginated listing to the end.
func pager[T any](fetch func(params common.BaseParams) ([]T, *common.Meta, error)) ([]T, error) {
	var all []T
	params := common.BaseParams{Page: 1, PageSize: common.MaxPageSize}
	for {
		items, meta, err := fetch(params)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < int(params.PageSize) || meta == nil || int64(len(all)) >= meta.Total {
			return all, nil
		}
		params.Page++
	}
}

func pageLabel(meta *common.Meta) string {
	if meta == nil || meta.PageSize == 0 {
		return ""
	}
	pages := (meta.Total + meta.PageSize - 1) / meta.PageSize
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf("Page %d of %d", meta.Page, pages)
}

// prevPage and nextPage return 0 when there is no such page.
func prevPage(meta *common.Meta) int64 {
	if meta == nil || meta.Page <= 1 {
		return 0
	}
	return meta.Page - 1
}

func nextPage(meta *common.Meta) int64 {
	if meta == nil || meta.Page*meta.PageSize >= meta.Total {
		return 0
	}
	return meta.Page + 1
}
