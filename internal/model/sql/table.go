package sql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"agcbo/internal/entity/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableSpec configures a generic catalogue table.
type TableSpec struct {
	// Visibility names the flag column hiding records from non-staff.
	// Empty means every record is visible.
	Visibility   string
	VisibleValue interface{}
	Preload      []string
	Order        string
	Sortable     []string
	Filterable   []string
	Search       []string
}

// Table is a GORM backed catalogue of T.
type Table[T any] struct {
	db   *gorm.DB
	spec TableSpec
}

// NewTable builds a table; VisibleValue defaults to true.
func NewTable[T any](db *gorm.DB, spec TableSpec) *Table[T] {
	if spec.Order == "" {
		spec.Order = "id DESC"
	}
	if spec.Visibility != "" && spec.VisibleValue == nil {
		spec.VisibleValue = true
	}
	return &Table[T]{db: db, spec: spec}
}

// Spec returns the table configuration.
func (t *Table[T]) Spec() TableSpec {
	return t.spec
}

func (t *Table[T]) scoped(ctx context.Context, staff bool) *gorm.DB {
	query := t.db.WithContext(ctx).Model(new(T))
	if !staff && t.spec.Visibility != "" {
		query = query.Where(clause.Eq{Column: clause.Column{Name: t.spec.Visibility}, Value: t.spec.VisibleValue})
	}
	return query
}

func (t *Table[T]) withPreloads(query *gorm.DB) *gorm.DB {
	for _, name := range t.spec.Preload {
		query = query.Preload(name)
	}
	return query
}

func (t *Table[T]) filtered(ctx context.Context, q common.ListQuery) *gorm.DB {
	query := t.scoped(ctx, q.Staff)
	if len(q.Where) > 0 {
		query = query.Where(q.Where)
	}
	for key, raw := range q.Filters {
		value := strings.TrimSpace(raw)
		if value == "" || !contains(t.spec.Filterable, key) {
			continue
		}
		query = query.Where(clause.Eq{Column: clause.Column{Name: key}, Value: coerceFilter(value)})
	}
	if keyword := strings.TrimSpace(q.Keyword); keyword != "" && len(t.spec.Search) > 0 {
		kw := "%" + strings.ToLower(keyword) + "%"
		parts := make([]string, 0, len(t.spec.Search))
		args := make([]interface{}, 0, len(t.spec.Search))
		for _, column := range t.spec.Search {
			parts = append(parts, "LOWER("+column+") LIKE ?")
			args = append(args, kw)
		}
		query = query.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return query
}

// List returns one page of records.
func (t *Table[T]) List(ctx context.Context, q common.ListQuery) ([]T, *common.Meta, error) {
	if t == nil || t.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	var total int64
	if err := t.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	order := t.spec.Order
	if q.SortBy != "" && contains(t.spec.Sortable, q.SortBy) {
		direction := "ASC"
		if q.SortDesc {
			direction = "DESC"
		}
		order = q.SortBy + " " + direction
	}

	query, page, pageSize := paginate(t.withPreloads(t.filtered(ctx, q)).Order(order), &q.BaseParams)
	var records []T
	if err := query.Find(&records).Error; err != nil {
		return nil, nil, err
	}
	return records, calculatePagination(total, page, pageSize), nil
}

// Get loads a record by primary key.
func (t *Table[T]) Get(ctx context.Context, id uint, staff bool) (*T, error) {
	if t == nil || t.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var record T
	if err := t.withPreloads(t.scoped(ctx, staff)).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// First loads the first record matching conds.
func (t *Table[T]) First(ctx context.Context, conds map[string]interface{}, staff bool) (*T, error) {
	if t == nil || t.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := t.withPreloads(t.scoped(ctx, staff))
	if len(conds) > 0 {
		query = query.Where(conds)
	}
	var record T
	if err := query.First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts record without touching its associations.
func (t *Table[T]) Create(ctx context.Context, record *T) error {
	if t == nil || t.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// Save writes every column of an existing record, zero values included.
func (t *Table[T]) Save(ctx context.Context, record *T) error {
	if t == nil || t.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	return t.db.WithContext(ctx).Model(record).Select("*").Omit("id", "created_at", clause.Associations).Updates(record).Error
}

// Update sets the given columns on one record.
func (t *Table[T]) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if t == nil || t.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid id")
	}
	if len(fields) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a record by primary key.
func (t *Table[T]) Delete(ctx context.Context, id uint) error {
	if t == nil || t.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid id")
	}
	result := t.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count counts every record matching conds, ignoring visibility.
func (t *Table[T]) Count(ctx context.Context, conds map[string]interface{}) (int64, error) {
	if t == nil || t.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	query := t.db.WithContext(ctx).Model(new(T))
	if len(conds) > 0 {
		query = query.Where(conds)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// coerceFilter turns query string values into typed SQL arguments.
func coerceFilter(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return value
}
