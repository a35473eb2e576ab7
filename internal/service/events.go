package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/model/sql"
	"agcbo/internal/sanitize"

	"github.com/sirupsen/logrus"
)

// EventService manages events, registrations and announcements.
type EventService struct {
	Events        *Catalog[db.Event, *db.Event]
	Registrations *Catalog[db.EventRegistration, *db.EventRegistration]
	Announcements *Catalog[db.Announcement, *db.Announcement]

	registrations model.Table[db.EventRegistration]
	profiles      model.Table[db.MemberProfile]
	accounts      model.AccountRepository
	repo          model.ActivityRepository
	audit         *AuditService
	now           func() time.Time
}

func NewEventService(tables *model.Tables, accounts model.AccountRepository, repo model.ActivityRepository, audit *AuditService) *EventService {
	s := &EventService{
		registrations: tables.Registrations,
		profiles:      tables.MemberProfiles,
		accounts:      accounts,
		repo:          repo,
		audit:         audit,
		now:           time.Now,
	}
	s.Events = NewCatalog[db.Event, *db.Event](tables.Events, audit, CatalogOptions[db.Event]{
		Name:     "event",
		Prepare:  validateEvent,
		Decorate: s.countRegistrations,
		Redact:   redactEvent,
	})
	s.Registrations = NewCatalog[db.EventRegistration, *db.EventRegistration](tables.Registrations, audit, CatalogOptions[db.EventRegistration]{
		Name:        "event_registration",
		RequireAuth: true,
		Scope: func(_ context.Context, viewer access.Viewer) (map[string]interface{}, error) {
			return map[string]interface{}{"account_id": viewer.AccountID}, nil
		},
		Prepare: func(_ context.Context, r *db.EventRegistration, _ bool) error {
			v := NewValidationError()
			if r.EventID == 0 {
				v.Add("event_id", "this field is required")
			}
			if !oneOf(r.PaymentStatus, []string{db.PaymentStatusPending, db.PaymentStatusPaid, db.PaymentStatusFree}) {
				v.Add("payment_status", "invalid payment status")
			}
			return v.Err()
		},
	})
	s.Announcements = NewCatalog[db.Announcement, *db.Announcement](tables.Announcements, audit, CatalogOptions[db.Announcement]{
		Name: "announcement",
		Prepare: func(_ context.Context, a *db.Announcement, _ bool) error {
			v := NewValidationError()
			required(v, "title", a.Title)
			return v.Err()
		},
	})
	return s
}

func validateEvent(_ context.Context, e *db.Event, _ bool) error {
	v := NewValidationError()
	required(v, "title", e.Title)
	if e.EventType == "" {
		e.EventType = db.EventOther
	}
	if !oneOf(e.EventType, db.EventTypes) {
		v.Add("event_type", "invalid event type")
	}
	if e.StartDate.IsZero() {
		v.Add("start_date", "this field is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		v.Add("end_date", "must not be before the start date")
	}
	if e.MaxParticipants != nil && *e.MaxParticipants < 0 {
		v.Add("max_participants", "must not be negative")
	}
	if e.RegistrationFee < 0 {
		v.Add("registration_fee", "must not be negative")
	}
	if e.IsOnline && strings.TrimSpace(e.OnlineLink) == "" {
		v.Add("online_link", "online events need a link")
	}
	return v.Err()
}

func (s *EventService) countRegistrations(ctx context.Context, e *db.Event) error {
	count, err := s.repo.CountConfirmedRegistrations(ctx, e.ID)
	if err != nil {
		return storageError(err)
	}
	e.RegisteredCount = count
	return nil
}

// redactEvent hides a linked project that is not public.
func redactEvent(e *db.Event) {
	if e.Project != nil && !e.Project.IsPublic {
		e.Project = nil
	}
}

// Register signs the viewer up for an event. The checks run in order: the
// event must not be full, the deadline must not have passed and the
// account must not already be registered. Free events confirm at once.
func (s *EventService) Register(ctx context.Context, viewer access.Viewer, eventID uint, req dto.EventRegistrationRequest) (*db.EventRegistration, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	event, err := s.Events.Get(ctx, viewer, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFull() {
		return nil, NewRuleError(RuleEventFull, "Event is full")
	}
	if event.DeadlinePassed(s.now()) {
		return nil, NewRuleError(RuleDeadlinePassed, "Registration deadline has passed")
	}
	_, err = s.registrations.First(ctx, map[string]interface{}{"event_id": event.ID, "account_id": viewer.AccountID}, true)
	if err == nil {
		return nil, NewRuleError(RuleAlreadyRegistered, "Already registered")
	}
	if !errors.Is(storageError(err), ErrNotFound) {
		return nil, storageError(err)
	}

	account, err := s.accounts.GetAccountByID(ctx, viewer.AccountID)
	if err != nil {
		return nil, storageError(err)
	}
	accountID := account.ID
	reg := &db.EventRegistration{
		EventID:       event.ID,
		AccountID:     &accountID,
		FullName:      firstNonEmpty(sanitize.Text(req.FullName), account.FullName()),
		Email:         firstNonEmpty(strings.TrimSpace(req.Email), account.Email),
		Phone:         firstNonEmpty(strings.TrimSpace(req.Phone), account.PhoneNumber),
		Notes:         sanitize.Text(req.Notes),
		PaymentStatus: db.PaymentStatusPending,
	}
	if profile, err := profileOf(ctx, s.profiles, account.ID); err == nil {
		reg.MemberID = &profile.ID
	}
	if event.RegistrationFee == 0 {
		reg.IsConfirmed = true
		reg.PaymentStatus = db.PaymentStatusFree
	}

	if err := s.registrations.Create(ctx, reg); err != nil {
		if sql.IsDuplicateKey(err) {
			return nil, NewRuleError(RuleAlreadyRegistered, "Already registered")
		}
		return nil, storageError(err)
	}

	over, err := s.backOutOverCapacity(ctx, event, reg)
	if err != nil {
		return nil, err
	}
	if over {
		return nil, NewRuleError(RuleEventFull, "Event is full")
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"account_id": account.ID,
		"confirmed":  reg.IsConfirmed,
	}).Info("event registration created")
	reg.Event = event
	return reg, nil
}

// backOutOverCapacity removes reg when concurrent confirmations took the
// last seats first. Seats go by registration id, so of two racing rows only
// the later one is removed.
func (s *EventService) backOutOverCapacity(ctx context.Context, event *db.Event, reg *db.EventRegistration) (bool, error) {
	if !reg.IsConfirmed || event.MaxParticipants == nil || *event.MaxParticipants <= 0 {
		return false, nil
	}
	seat, err := s.repo.CountConfirmedRegistrationsUpTo(ctx, event.ID, reg.ID)
	if err != nil {
		return false, storageError(err)
	}
	if seat <= int64(*event.MaxParticipants) {
		return false, nil
	}
	if err := s.registrations.Delete(ctx, reg.ID); err != nil {
		logrus.WithError(err).WithField("registration_id", reg.ID).Warn("failed to back out over-capacity registration")
	}
	return true, nil
}

// ConfirmRegistration marks a registration confirmed; a pending payment is
// recorded as paid. Staff only.
func (s *EventService) ConfirmRegistration(ctx context.Context, viewer access.Viewer, id uint) (*db.EventRegistration, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	reg, err := s.registrations.Get(ctx, id, true)
	if err != nil {
		return nil, storageError(err)
	}
	changes := map[string]interface{}{"is_confirmed": true}
	if reg.PaymentStatus == db.PaymentStatusPending {
		changes["payment_status"] = db.PaymentStatusPaid
	}
	if err := s.registrations.Update(ctx, id, changes); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, "event_registration", reg, changes)
	return s.registrations.Get(ctx, id, true)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
