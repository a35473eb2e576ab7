package db

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire form of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day stored in a DATE column. JSON carries it as
// YYYY-MM-DD; a full RFC3339 timestamp is accepted on input and truncated to
// its day.
type Date datatypes.Date

// NewDate returns the day of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate reads YYYY-MM-DD or RFC3339. The error is the *time.ParseError
// of the date-only layout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return Date(t), nil
	}
	if full, fullErr := time.Parse(time.RFC3339Nano, s); fullErr == nil {
		return NewDate(full), nil
	}
	return Date{}, err
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool { return d.String() < other.String() }

func (d *Date) Scan(value interface{}) error {
	return (*datatypes.Date)(d).Scan(value)
}

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (Date) GormDataType() string {
	return datatypes.Date{}.GormDataType()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
