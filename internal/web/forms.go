package web

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"agcbo/internal/access"

	"github.com/gin-gonic/gin"
)

// Field kinds understood by the panel forms.
const (
	kindText     = "text"
	kindTextarea = "textarea"
	kindRich     = "rich"
	kindEmail    = "email"
	kindURL      = "url"
	kindNumber   = "number"
	kindInt      = "int"
	kindRef      = "ref"
	kindDate     = "date"
	kindDateTime = "datetime"
	kindCheckbox = "checkbox"
	kindSelect   = "select"
	kindPassword = "password"
	kindFile     = "file"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

type choice struct {
	Value string
	Label string
}

// formField describes one input of a panel form. Name is the JSON field of
// the record it edits.
type formField struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Help     string
	Options  []string
	// Choices loads the options of a reference field.
	Choices func(ctx context.Context, viewer access.Viewer) ([]choice, error)
}

// fieldView is a formField bound to a value for rendering.
type fieldView struct {
	formField
	Value   string
	Checked bool
	Error   string
	Choices []choice
}

func (f fieldView) Selected(value string) bool {
	return f.Value == value
}

// column is one column of a panel listing.
type column struct {
	Name  string
	Label string
	Kind  string
}

func optionChoices(values []string) []choice {
	out := make([]choice, 0, len(values))
	for _, v := range values {
		out = append(out, choice{Value: v, Label: humanize(v)})
	}
	return out
}

// bindFields pairs the form definition with current values and errors.
func bindFields(ctx context.Context, viewer access.Viewer, fields []formField, values map[string]string, errs map[string]string) ([]fieldView, error) {
	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		view := fieldView{formField: f, Value: values[f.Name], Error: errs[f.Name]}
		view.Checked = view.Value == "true"
		switch {
		case f.Choices != nil:
			choices, err := f.Choices(ctx, viewer)
			if err != nil {
				return nil, fmt.Errorf("load choices for %s: %w", f.Name, err)
			}
			view.Choices = choices
		case len(f.Options) > 0:
			view.Choices = optionChoices(f.Options)
		}
		views = append(views, view)
	}
	return views, nil
}

// recordMap flattens a record into its JSON field map.
func recordMap(record interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func recordMaps[T any](records []T) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		row, err := recordMap(&records[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// formValues renders a record's fields as input values.
func formValues(record map[string]interface{}, fields []formField) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		raw, ok := record[f.Name]
		if !ok || raw == nil || f.Kind == kindPassword || f.Kind == kindFile {
			continue
		}
		switch f.Kind {
		case kindDate:
			values[f.Name] = reformatTime(raw, dateLayout)
		case kindDateTime:
			values[f.Name] = reformatTime(raw, dateTimeLayout)
		default:
			values[f.Name] = scalar(raw)
		}
	}
	return values
}

// postedValues echoes submitted input back into a form that failed
// validation.
func postedValues(c *gin.Context, fields []formField) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case kindPassword, kindFile:
		case kindCheckbox:
			if c.PostForm(f.Name) != "" {
				values[f.Name] = "true"
			}
		default:
			values[f.Name] = c.PostForm(f.Name)
		}
	}
	return values
}

// formPayload converts a submitted form into the JSON payload the catalogues
// decode. Unchecked boxes are sent as false, empty optional values as null
// and empty passwords are left out.
func formPayload(c *gin.Context, fields []formField) ([]byte, map[string]string, error) {
	payload := make(map[string]interface{}, len(fields))
	errs := map[string]string{}
	for _, f := range fields {
		raw := strings.TrimSpace(c.PostForm(f.Name))
		switch f.Kind {
		case kindFile:
			continue
		case kindPassword:
			if raw != "" {
				payload[f.Name] = c.PostForm(f.Name)
			}
		case kindCheckbox:
			payload[f.Name] = raw != ""
		case kindNumber:
			if raw == "" {
				payload[f.Name] = nil
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				errs[f.Name] = "enter a number"
				continue
			}
			payload[f.Name] = v
		case kindInt, kindRef:
			if raw == "" {
				payload[f.Name] = nil
				continue
			}
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || (f.Kind == kindRef && v <= 0) {
				errs[f.Name] = "enter a whole number"
				continue
			}
			payload[f.Name] = v
		case kindDate, kindDateTime:
			if raw == "" {
				payload[f.Name] = nil
				continue
			}
			if f.Kind == kindDate {
				if _, err := time.Parse(dateLayout, raw); err != nil {
					errs[f.Name] = "enter a valid date"
					continue
				}
				payload[f.Name] = raw
				continue
			}
			t, err := time.ParseInLocation(dateTimeLayout, raw, time.Local)
			if err != nil {
				errs[f.Name] = "enter a valid date"
				continue
			}
			payload[f.Name] = t
		default:
			payload[f.Name] = raw
		}
		if f.Required && raw == "" && f.Kind != kindCheckbox {
			errs[f.Name] = "this field is required"
		}
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	body, err := json.Marshal(payload)
	return body, nil, err
}

func reformatTime(raw interface{}, layout string) string {
	t := parseTime(raw)
	if t == nil {
		return ""
	}
	if layout == dateLayout {
		return t.Format(layout)
	}
	return t.In(time.Local).Format(layout)
}

func scalar(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(raw)
}

// cell formats one listing value for display.
func cell(row map[string]interface{}, col column) string {
	raw := row[col.Name]
	switch col.Kind {
	case "bool":
		if b, _ := raw.(bool); b {
			return "Yes"
		}
		return "No"
	case "date":
		return formatDate(parseTime(raw))
	case "datetime":
		return formatDateTime(parseTime(raw))
	case "money":
		if f, ok := raw.(float64); ok {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
	case "label":
		if s, ok := raw.(string); ok {
			return humanize(s)
		}
	}
	return scalar(raw)
}

func parseTime(raw interface{}) *time.Time {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t, err = time.Parse(dateLayout, s); err != nil {
			return nil
		}
	}
	return &t
}

// sortedChoices orders reference options by label.
func sortedChoices(choices []choice) []choice {
	sort.SliceStable(choices, func(i, j int) bool {
		return strings.ToLower(choices[i].Label) < strings.ToLower(choices[j].Label)
	})
	return choices
}
