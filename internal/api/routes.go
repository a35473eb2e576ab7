package api

import (
	"github.com/gin-gonic/gin"
)

// Register mounts the JSON API under /api and the media endpoint. Guards
// are attached per route: reads are open, the service layer narrows what
// each viewer sees, and writes carry RequireAuth or RequireStaff.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/media/*path", h.ServeMedia)

	apiGroup := r.Group("/api")
	apiGroup.Use(h.AuthMiddleware())
	authed := h.RequireAuth()
	staff := h.RequireStaff()

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.RegisterMember)
	authGroup.POST("/register/donor", h.RegisterDonor)
	authGroup.POST("/register/county-official", h.RegisterCountyOfficial)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", authed, h.Me)
	authGroup.GET("/constituencies", h.Constituencies)
	authGroup.GET("/constituencies/:id/wards", h.Wards)
	authGroup.GET("/departments", h.Departments)
	authGroup.GET("/audit-logs", staff, h.ListAuditLogs)
	authGroup.GET("/dashboard", staff, h.Dashboard)

	users := authGroup.Group("/users", staff)
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)
	users.POST("/:id/approve", h.gate(h.svc.Accounts.Approve, "failed to approve account"))
	users.POST("/:id/reject", h.gate(h.svc.Accounts.Reject, "failed to reject account"))
	users.POST("/:id/verify", h.gate(h.svc.Accounts.Verify, "failed to verify account"))

	members := apiGroup.Group("/members", authed)
	members.GET("/profiles/me", h.MyProfile)
	members.PATCH("/profiles/me", h.UpdateMyProfile)
	members.POST("/profiles/:id/approve", staff, h.ApproveProfile)
	members.POST("/profiles/:id/reject", staff, h.RejectProfile)
	newResource(h, members, "/profiles", h.svc.Members.Profiles).readable().editable()
	newResource(h, members, "/certificates", h.svc.Members.Certificates).crud()

	projects := newResource(h, apiGroup, "/projects", h.svc.Projects.Projects).crud()
	projects.group.POST("/:id/add-member", staff, h.AddProjectMember)
	projects.group.GET("/:id/members", h.ProjectMembers)
	newResource(h, projects.group, "/categories", h.svc.Projects.Categories).crud()
	newResource(h, projects.group, "/counties", h.svc.Projects.Counties).crud()
	newResource(h, projects.group, "/ministries", h.svc.Projects.Ministries).crud()
	newResource(h, projects.group, "/reports", h.svc.Projects.Reports).crud()

	funding := apiGroup.Group("/funding")
	newResource(h, funding, "/sources", h.svc.Funding.Sources).crud()
	newResource(h, funding, "/sponsors", h.svc.Funding.Sponsors).crud()
	newResource(h, funding, "/tiers", h.svc.Funding.Tiers).crud()
	donations := funding.Group("/donations")
	donations.GET("", h.ListDonations)
	donations.GET("/stats", h.DonationStats)
	donations.GET("/:id", h.GetDonation)
	donations.POST("", authed, h.CreateDonation)
	donations.POST("/:id/mark-completed", staff, h.MarkDonationCompleted)

	events := newResource(h, apiGroup, "/events", h.svc.Events.Events).crud()
	events.group.POST("/:id/register", authed, h.RegisterForEvent)
	registrations := newResource(h, events.group, "/registrations", h.svc.Events.Registrations)
	registrations.group.Use(authed)
	registrations.readable().deletable()
	registrations.group.POST("/:id/confirm", staff, h.ConfirmRegistration)
	newResource(h, events.group, "/announcements", h.svc.Events.Announcements).crud()

	gallery := newResource(h, apiGroup, "/gallery", h.svc.Gallery.Items).readable().creatable().editable()
	gallery.group.POST("/upload", staff, h.UploadGalleryItem)
	gallery.group.DELETE("/:id", staff, h.DeleteGalleryItem)

	sports := apiGroup.Group("/sports")
	newResource(h, sports, "/programs", h.svc.Sports.Programs).crud()
	teams := newResource(h, sports, "/teams", h.svc.Sports.Teams).crud()
	teams.group.GET("/:id/members", h.TeamRoster)
	teams.group.POST("/:id/members", staff, h.AddTeamMember)
	newResource(h, sports, "/team-members", h.svc.Sports.Roster).readable().editable().deletable()
	newResource(h, sports, "/matches", h.svc.Sports.Matches).crud()
	newResource(h, sports, "/training", h.svc.Sports.Training).crud()

	gamification := apiGroup.Group("/gamification", authed)
	newResource(h, gamification, "/badges", h.svc.Gamification.Badges).crud()
	newResource(h, gamification, "/member-badges", h.svc.Gamification.MemberBadges).crud()
	points := newResource(h, gamification, "/points", h.svc.Gamification.Points)
	points.group.GET("/my", h.MyPoints)
	points.group.POST("", staff, h.AwardPoints)
	points.readable().deletable()
	gamification.GET("/leaderboard", h.Leaderboard)
	gamification.GET("/leaderboard/current", h.CurrentLeaderboard)
	gamification.POST("/leaderboard/rebuild", staff, h.RebuildLeaderboard)

	newResource(h, apiGroup, "/reports", h.svc.Site.Reports).crud()

	contact := apiGroup.Group("/contact")
	contact.POST("", h.SubmitContact)
	contact.GET("", staff, h.ListContactMessages)
	contact.GET("/:id", staff, h.GetContactMessage)
	contact.PATCH("/:id", staff, h.UpdateContactStatus)
	contact.DELETE("/:id", staff, h.DeleteContactMessage)

	site := apiGroup.Group("/site")
	site.GET("/settings", h.GetSettings)
	site.PUT("/settings", staff, h.SaveSettings)
	site.POST("/settings/branding", staff, h.UploadBranding)
	site.GET("/about", h.GetAbout)
	site.PUT("/about", staff, h.SaveAbout)
	newResource(h, site, "/officials", h.svc.Site.Officials).crud()
	newResource(h, site, "/youth-jobs", h.svc.Site.YouthJobs).crud()
}
