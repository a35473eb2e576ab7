package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type registrationKind string

const (
	kindMember         registrationKind = db.RoleMember
	kindDonor          registrationKind = db.RoleDonor
	kindCountyOfficial registrationKind = db.RoleCountyOfficial
)

var registrationTitles = map[registrationKind]string{
	kindMember:         "Become a member",
	kindDonor:          "Register as a donor",
	kindCountyOfficial: "County official registration",
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (h *Handler) LoginForm(c *gin.Context) {
	if currentViewer(c).Authenticated() {
		c.Redirect(http.StatusSeeOther, h.landing(currentViewer(c)))
		return
	}
	h.render(c, http.StatusOK, "login", "Sign in", gin.H{"Next": safeNext(c.Query("next"))})
}

func (h *Handler) landing(viewer access.Viewer) string {
	if viewer.IsStaff() {
		return "/manage/"
	}
	return "/dashboard"
}

// Login checks the credentials and the role gate, then starts a session.
func (h *Handler) Login(c *gin.Context) {
	var form dto.LoginRequest
	next := safeNext(c.PostForm("next"))
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login", "Sign in", gin.H{"Next": next, "Error": "Enter your username and password."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := h.svc.Accounts.Authenticate(ctx, form.Username, form.Password, access.ClientIP(c.Request))
	if err != nil {
		message := "Invalid username or password."
		switch {
		case errors.Is(err, service.ErrAccountPending):
			message = "Your account is awaiting approval by an administrator."
		case errors.Is(err, service.ErrAccountDisabled):
			message = "Your account has been disabled."
		case errors.Is(err, service.ErrInvalidCredentials):
		default:
			logrus.WithError(err).Error("web login failed")
			message = "Sign in is unavailable right now. Please try again."
		}
		h.render(c, http.StatusUnauthorized, "login", "Sign in", gin.H{
			"Next":     next,
			"Username": form.Username,
			"Error":    message,
		})
		return
	}

	if err := h.signIn(c, account.ID, account.Role); err != nil {
		h.fail(c, err, "failed to start session")
		return
	}
	logrus.WithFields(logrus.Fields{"account_id": account.ID, "role": account.Role}).Info("web login")
	if next == "" {
		next = h.landing(access.FromAccount(account, ""))
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	h.back(c, "/", "You have been signed out.")
}

func (h *Handler) registrationData(ctx context.Context, kind registrationKind, form interface{}, fields map[string]string) (gin.H, error) {
	data := gin.H{
		"Kind":   string(kind),
		"Form":   form,
		"Errors": fields,
	}
	switch kind {
	case kindMember:
		constituencies, err := h.svc.Accounts.Constituencies(ctx)
		if err != nil {
			return nil, err
		}
		data["Constituencies"] = constituencies
	case kindCountyOfficial:
		data["Departments"] = h.svc.Accounts.Departments()
	}
	return data, nil
}

// RegisterForm shows the intake form for one of the self-service roles.
func (h *Handler) RegisterForm(kind registrationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var form interface{}
		switch kind {
		case kindDonor:
			form = dto.DonorRegistration{}
		case kindCountyOfficial:
			form = dto.CountyOfficialRegistration{}
		default:
			form = dto.MemberRegistration{}
		}
		data, err := h.registrationData(ctx, kind, form, nil)
		if err != nil {
			h.fail(c, err, "failed to load registration form")
			return
		}
		h.render(c, http.StatusOK, "register", registrationTitles[kind], data)
	}
}

// SubmitRegistration creates a pending account. The account cannot sign in
// until staff approve (members, donors) or verify (county officials) it.
func (h *Handler) SubmitRegistration(kind registrationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var (
			form interface{}
			err  error
		)
		switch kind {
		case kindDonor:
			var req dto.DonorRegistration
			_ = c.ShouldBind(&req)
			_, err = h.svc.Accounts.RegisterDonor(ctx, req)
			req.Password, req.PasswordConfirm = "", ""
			form = req
		case kindCountyOfficial:
			var req dto.CountyOfficialRegistration
			_ = c.ShouldBind(&req)
			_, err = h.svc.Accounts.RegisterCountyOfficial(ctx, req)
			req.Password, req.PasswordConfirm = "", ""
			form = req
		default:
			var req dto.MemberRegistration
			_ = c.ShouldBind(&req)
			_, err = h.svc.Accounts.RegisterMember(ctx, req)
			req.Password, req.PasswordConfirm = "", ""
			form = req
		}

		if err != nil {
			fields, ok := fieldErrors(err)
			if !ok {
				h.fail(c, err, "failed to register")
				return
			}
			data, dataErr := h.registrationData(ctx, kind, form, fields)
			if dataErr != nil {
				h.fail(c, dataErr, "failed to load registration form")
				return
			}
			h.render(c, http.StatusBadRequest, "register", registrationTitles[kind], data)
			return
		}
		c.Redirect(http.StatusSeeOther, "/register/success?kind="+string(kind))
	}
}

func (h *Handler) RegistrationSuccess(c *gin.Context) {
	kind := registrationKind(c.Query("kind"))
	if _, ok := registrationTitles[kind]; !ok {
		kind = kindMember
	}
	h.render(c, http.StatusOK, "register_success", "Registration received", gin.H{"Kind": string(kind)})
}
