package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/sanitize"
)

// errEmptyScope tells a catalogue that the viewer may see nothing at all.
var errEmptyScope = errors.New("empty scope")

type defaulter interface {
	ApplyDefaults()
}

// CatalogOptions tunes a generic catalogue.
type CatalogOptions[T any] struct {
	// Name is the audit target type.
	Name string
	// RequireAuth refuses anonymous reads.
	RequireAuth bool
	// Scope narrows reads for authenticated non-staff viewers, on top of
	// the table's visibility rule.
	Scope func(ctx context.Context, viewer access.Viewer) (map[string]interface{}, error)
	// Prepare validates a record before it is written.
	Prepare func(ctx context.Context, record *T, isNew bool) error
	// Decorate fills fields computed from other tables after a read.
	Decorate func(ctx context.Context, record *T) error
	// Redact clears preloaded associations a non-staff viewer may not see.
	Redact func(record *T)
}

// Catalog is the read and staff-write surface of one record type. Reads go
// through the table's visibility rule; every write is audited.
type Catalog[T any, PT interface {
	*T
	db.Record
}] struct {
	table model.Table[T]
	audit *AuditService
	opts  CatalogOptions[T]
}

func NewCatalog[T any, PT interface {
	*T
	db.Record
}](table model.Table[T], audit *AuditService, opts CatalogOptions[T]) *Catalog[T, PT] {
	return &Catalog[T, PT]{table: table, audit: audit, opts: opts}
}

func (c *Catalog[T, PT]) Name() string {
	return c.opts.Name
}

func (c *Catalog[T, PT]) Table() model.Table[T] {
	return c.table
}

func (c *Catalog[T, PT]) readScope(ctx context.Context, viewer access.Viewer) (map[string]interface{}, error) {
	if c.opts.RequireAuth && !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if viewer.IsStaff() || c.opts.Scope == nil {
		return nil, nil
	}
	return c.opts.Scope(ctx, viewer)
}

// List returns one page of records visible to viewer.
func (c *Catalog[T, PT]) List(ctx context.Context, viewer access.Viewer, q common.ListQuery) ([]T, *common.Meta, error) {
	scope, err := c.readScope(ctx, viewer)
	if errors.Is(err, errEmptyScope) {
		q.Normalize()
		return []T{}, &common.Meta{Page: q.Page, PageSize: q.PageSize}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	q.Staff = viewer.IsStaff()
	q.Where = mergeConds(q.Where, scope)
	items, meta, err := c.table.List(ctx, q)
	if err != nil {
		return nil, nil, storageError(err)
	}
	for i := range items {
		if err := c.decorate(ctx, viewer, &items[i]); err != nil {
			return nil, nil, err
		}
	}
	return items, meta, nil
}

// Get loads one record visible to viewer.
func (c *Catalog[T, PT]) Get(ctx context.Context, viewer access.Viewer, id uint) (*T, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return c.Find(ctx, viewer, map[string]interface{}{"id": id})
}

// Find loads the first record matching conds that viewer may see.
func (c *Catalog[T, PT]) Find(ctx context.Context, viewer access.Viewer, conds map[string]interface{}) (*T, error) {
	scope, err := c.readScope(ctx, viewer)
	if errors.Is(err, errEmptyScope) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	record, err := c.table.First(ctx, mergeConds(conds, scope), viewer.IsStaff())
	if err != nil {
		return nil, storageError(err)
	}
	if err := c.decorate(ctx, viewer, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Catalog[T, PT]) decorate(ctx context.Context, viewer access.Viewer, record *T) error {
	if c.opts.Redact != nil && !viewer.IsStaff() {
		c.opts.Redact(record)
	}
	if c.opts.Decorate == nil {
		return nil
	}
	return c.opts.Decorate(ctx, record)
}

// Create decodes a JSON payload onto a defaulted record and stores it.
func (c *Catalog[T, PT]) Create(ctx context.Context, viewer access.Viewer, payload []byte) (*T, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	record := c.New()
	if _, err := decodePayload(payload, record); err != nil {
		return nil, err
	}
	return c.insert(ctx, viewer, record)
}

// New returns an empty record with its defaults applied.
func (c *Catalog[T, PT]) New() *T {
	record := new(T)
	if d, ok := any(record).(defaulter); ok {
		d.ApplyDefaults()
	}
	return record
}

// CreateRecord stores an already populated record.
func (c *Catalog[T, PT]) CreateRecord(ctx context.Context, viewer access.Viewer, record *T) (*T, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	if record == nil {
		return nil, FieldError("body", "record is required")
	}
	return c.insert(ctx, viewer, record)
}

func (c *Catalog[T, PT]) insert(ctx context.Context, viewer access.Viewer, record *T) (*T, error) {
	PT(record).SetRecordID(0)
	if authored, ok := any(record).(db.Authored); ok && viewer.Authenticated() {
		authored.SetCreatedBy(viewer.AccountID)
	}
	if err := c.prepare(ctx, record, true); err != nil {
		return nil, err
	}
	if err := c.table.Create(ctx, record); err != nil {
		return nil, storageError(err)
	}
	c.audit.Record(ctx, viewer, db.AuditCreate, c.opts.Name, PT(record), nil)
	return c.reload(ctx, viewer, record), nil
}

// Update decodes a partial JSON payload onto the stored record. Fields
// absent from the payload keep their values.
func (c *Catalog[T, PT]) Update(ctx context.Context, viewer access.Viewer, id uint, payload []byte) (*T, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	record, err := c.table.Get(ctx, id, true)
	if err != nil {
		return nil, storageError(err)
	}
	changes, err := decodePayload(payload, record)
	if err != nil {
		return nil, err
	}
	PT(record).SetRecordID(id)
	return c.save(ctx, viewer, record, changes)
}

// UpdateRecord overwrites a stored record with record.
func (c *Catalog[T, PT]) UpdateRecord(ctx context.Context, viewer access.Viewer, id uint, record *T) (*T, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	if _, err := c.table.Get(ctx, id, true); err != nil {
		return nil, storageError(err)
	}
	PT(record).SetRecordID(id)
	return c.save(ctx, viewer, record, nil)
}

func (c *Catalog[T, PT]) save(ctx context.Context, viewer access.Viewer, record *T, changes map[string]interface{}) (*T, error) {
	if err := c.prepare(ctx, record, false); err != nil {
		return nil, err
	}
	if err := c.table.Save(ctx, record); err != nil {
		return nil, storageError(err)
	}
	c.audit.Record(ctx, viewer, db.AuditUpdate, c.opts.Name, PT(record), changes)
	return c.reload(ctx, viewer, record), nil
}

// Delete removes a record.
func (c *Catalog[T, PT]) Delete(ctx context.Context, viewer access.Viewer, id uint) error {
	if !viewer.IsStaff() {
		return ErrForbidden
	}
	record, err := c.table.Get(ctx, id, true)
	if err != nil {
		return storageError(err)
	}
	if err := c.table.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	c.audit.Record(ctx, viewer, db.AuditDelete, c.opts.Name, PT(record), nil)
	return nil
}

// prepare sanitises rich text, fills the slug and runs the custom hook.
func (c *Catalog[T, PT]) prepare(ctx context.Context, record *T, isNew bool) error {
	if rich, ok := any(record).(db.RichText); ok {
		for _, field := range rich.RichTextFields() {
			*field = sanitize.HTML(*field)
		}
	}
	if slugged, ok := any(record).(db.Slugged); ok {
		if err := c.fillSlug(ctx, PT(record).RecordID(), slugged); err != nil {
			return err
		}
	}
	if c.opts.Prepare != nil {
		return c.opts.Prepare(ctx, record, isNew)
	}
	return nil
}

func (c *Catalog[T, PT]) fillSlug(ctx context.Context, selfID uint, record db.Slugged) error {
	field := record.SlugField()
	owner := func(ctx context.Context, slug string) (uint, error) {
		existing, err := c.table.First(ctx, map[string]interface{}{"slug": slug}, true)
		if err != nil {
			return 0, err
		}
		return PT(existing).RecordID(), nil
	}

	requested := strings.TrimSpace(*field)
	if requested == "" {
		if strings.TrimSpace(record.SlugSource()) == "" {
			return FieldError("title", "this field is required")
		}
		slug, err := uniqueSlug(ctx, record.SlugSource(), selfID, owner)
		if err != nil {
			return err
		}
		*field = slug
		return nil
	}

	slug := Slugify(requested)
	id, err := owner(ctx, slug)
	if err == nil && id != 0 && id != selfID {
		return FieldError("slug", "this slug is already in use")
	}
	if err != nil && !errors.Is(storageError(err), ErrNotFound) {
		return err
	}
	*field = slug
	return nil
}

// reload fetches the stored row so derived fields and preloads are filled.
func (c *Catalog[T, PT]) reload(ctx context.Context, viewer access.Viewer, record *T) *T {
	fresh, err := c.table.Get(ctx, PT(record).RecordID(), true)
	if err != nil {
		return record
	}
	if err := c.decorate(ctx, viewer, fresh); err != nil {
		return record
	}
	return fresh
}

// decodePayload unmarshals a JSON object onto target and returns the
// decoded keys as the audit change set.
func decodePayload(payload []byte, target interface{}) (map[string]interface{}, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, FieldError("body", "request body is required")
	}
	var changes map[string]interface{}
	if err := json.Unmarshal(payload, &changes); err != nil {
		return nil, FieldError("body", "request body must be a JSON object")
	}
	delete(changes, "id")
	if err := json.Unmarshal(payload, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, FieldError(typeErr.Field, "invalid value")
		}
		var parseErr *time.ParseError
		if errors.As(err, &parseErr) {
			if field := rejectedField(changes, target); field != "" {
				return nil, FieldError(field, "enter a date as YYYY-MM-DD")
			}
		}
		return nil, FieldError("body", "invalid request body")
	}
	return changes, nil
}

// rejectedField decodes each top-level key on its own and returns the first,
// in name order, that the target type refuses.
func rejectedField(changes map[string]interface{}, target interface{}) string {
	typ := reflect.TypeOf(target)
	if typ.Kind() != reflect.Ptr {
		return ""
	}
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw, err := json.Marshal(map[string]interface{}{k: changes[k]})
		if err != nil {
			continue
		}
		if json.Unmarshal(raw, reflect.New(typ.Elem()).Interface()) != nil {
			return k
		}
	}
	return ""
}

func mergeConds(base, extra map[string]interface{}) map[string]interface{} {
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
