package service

import (
	"context"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/sanitize"

	"github.com/sirupsen/logrus"
)

// ContactService stores messages from the public contact form.
type ContactService struct {
	messages model.Table[db.ContactMessage]
	audit    *AuditService
}

func NewContactService(tables *model.Tables, audit *AuditService) *ContactService {
	return &ContactService{messages: tables.ContactMessages, audit: audit}
}

// Submit stores a message. Anyone may write; the sender's address is kept.
func (s *ContactService) Submit(ctx context.Context, viewer access.Viewer, req dto.ContactRequest) (*db.ContactMessage, error) {
	v := NewValidationError()
	required(v, "name", req.Name)
	required(v, "email", req.Email)
	required(v, "subject", req.Subject)
	required(v, "message", req.Message)
	validEmail(v, "email", strings.TrimSpace(req.Email))
	if err := v.Err(); err != nil {
		return nil, err
	}

	msg := &db.ContactMessage{
		Name:     sanitize.Text(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Subject:  sanitize.Text(req.Subject),
		Message:  sanitize.Text(req.Message),
		Status:   db.MessageNew,
		SourceIP: viewer.IP,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storageError(err)
	}
	logrus.WithFields(logrus.Fields{"message_id": msg.ID, "ip": viewer.IP}).Info("contact message received")
	return msg, nil
}

// List returns contact messages. Staff only.
func (s *ContactService) List(ctx context.Context, viewer access.Viewer, q common.ListQuery) ([]db.ContactMessage, *common.Meta, error) {
	if !viewer.IsStaff() {
		return nil, nil, ErrForbidden
	}
	q.Staff = true
	items, meta, err := s.messages.List(ctx, q)
	if err != nil {
		return nil, nil, storageError(err)
	}
	return items, meta, nil
}

// Get loads one message. Staff only.
func (s *ContactService) Get(ctx context.Context, viewer access.Viewer, id uint) (*db.ContactMessage, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	msg, err := s.messages.Get(ctx, id, true)
	if err != nil {
		return nil, storageError(err)
	}
	return msg, nil
}

// SetStatus moves a message to a new status. Staff only.
func (s *ContactService) SetStatus(ctx context.Context, viewer access.Viewer, id uint, status string) (*db.ContactMessage, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	if !oneOf(status, db.MessageStatuses) {
		return nil, FieldError("status", "invalid status")
	}
	msg, err := s.messages.Get(ctx, id, true)
	if err != nil {
		return nil, storageError(err)
	}
	if err := s.messages.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, "contact_message", msg, map[string]interface{}{"status": status})
	msg.Status = status
	return msg, nil
}

// Delete removes a message. Staff only.
func (s *ContactService) Delete(ctx context.Context, viewer access.Viewer, id uint) error {
	msg, err := s.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditDelete, "contact_message", msg, nil)
	return nil
}
