package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	isoLayout = "2006-01-02"
	dmyLayout = "02/01/2006"
)

// Date is a calendar day. The time component is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out-of-range values are
// normalised the way time.Date does (month 13 is January of the next year).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(dmyLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// InMonth reports whether d falls in the given calendar month (1-12) of year.
func (d Date) InMonth(year, month int) bool {
	return d.Year() == year && int(d.Month()) == month
}

// ISO formats d as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(isoLayout)
}

// DDMMYYYY formats d the way exports print it.
func (d Date) DDMMYYYY() string {
	return d.Format(dmyLayout)
}

// MonthEnd returns the last day of the given month.
func MonthEnd(year, month int) Date {
	return NewDate(year, month+1, 0)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrValidation)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
