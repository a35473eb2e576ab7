package service

import (
	"agcbo/internal/auth"
	"agcbo/internal/model"
	"agcbo/internal/storage"
)

// Services is every domain service, built once at startup and shared by the
// API and the web panel.
type Services struct {
	Audit        *AuditService
	Accounts     *AccountService
	Settings     *SettingsService
	Members      *MemberService
	Projects     *ProjectService
	Funding      *FundingService
	Events       *EventService
	Gallery      *GalleryService
	Sports       *SportsService
	Gamification *GamificationService
	Site         *SiteService
	Contact      *ContactService
	Dashboard    *DashboardService
}

// NewServices wires the services over one store. tokenStore may be nil, in
// which case refresh tokens are tracked in memory.
func NewServices(store *model.Store, tokens *auth.Manager, tokenStore auth.TokenStore, media *storage.Uploader) *Services {
	audit := NewAuditService(store)
	accounts := NewAccountService(store, tokens, tokenStore, audit)
	return &Services{
		Audit:        audit,
		Accounts:     accounts,
		Settings:     NewSettingsService(store.Tables.SiteSettings, store.Tables.AboutPage, audit, media),
		Members:      NewMemberService(store.Tables, accounts, audit),
		Projects:     NewProjectService(store.Tables, store, audit),
		Funding:      NewFundingService(store.Tables, store, store, audit),
		Events:       NewEventService(store.Tables, store, store, audit),
		Gallery:      NewGalleryService(store.Tables, media, audit),
		Sports:       NewSportsService(store.Tables, audit),
		Gamification: NewGamificationService(store.Tables, store, audit),
		Site:         NewSiteService(store.Tables, audit),
		Contact:      NewContactService(store.Tables, audit),
		Dashboard:    NewDashboardService(store.Tables, store, store),
	}
}
