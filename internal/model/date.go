package model

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used across the pipeline
const DateFormat = "2006-01-02"

// Date is a calendar date that serializes as yyyy-MM-dd text instead of an
// RFC 3339 timestamp.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time value, truncating the clock part
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses yyyy-MM-dd text into a Date
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MarshalJSON renders the date as "yyyy-MM-dd"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.Format(DateFormat))), nil
}

// UnmarshalJSON parses a quoted "yyyy-MM-dd" value
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// String renders the date in the wire format
func (d Date) String() string {
	return d.Format(DateFormat)
}
