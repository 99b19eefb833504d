package value

import (
	"time"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05.000"
)

// DateData is a calendar date with day precision, stored as days since
// the Unix epoch.
type DateData struct {
	nullable
	days int32
}

func NewDate(t time.Time) *DateData {
	d := &DateData{}
	d.SetTime(t)
	return d
}

// NewDateFromDays builds a date from its epoch-day payload.
func NewDateFromDays(days int32) *DateData {
	return &DateData{days: days}
}

func (d *DateData) Type() Type        { return TypeDate }
func (d *DateData) ElementType() Type { return TypeUndefined }
func (d *DateData) ClassID() int32    { return ClassDateData }
func (d *DateData) Days() int32       { return d.days }

func (d *DateData) Time() time.Time {
	return time.Unix(int64(d.days)*86400, 0).UTC()
}

func (d *DateData) SetTime(t time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	d.days = int32(day.Unix() / 86400)
	d.setNotNull()
}

func (d *DateData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	switch v := src.(type) {
	case *DateData:
		d.days = v.days
		d.setNotNull()
		return nil
	case *DateTimeData:
		d.SetTime(v.Time())
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *DateData) Copy() Data {
	c := *d
	return &c
}

func (d *DateData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	switch v := other.(type) {
	case *DateData:
		switch {
		case d.days < v.days:
			return -1
		case d.days > v.days:
			return 1
		}
		return 0
	case *DateTimeData:
		return compareTime(d.Time(), v.Time())
	}
	return compareTypeOrder(d, other)
}

func (d *DateData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *DateData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.days)
}

func (d *DateData) String() string {
	if d.null {
		return "(null)"
	}
	return d.Time().Format(dateFormat)
}

func (d *DateData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Int32(&d.days)
	return a.Err()
}

// DateTimeData is a timestamp with millisecond precision, stored as
// milliseconds since the Unix epoch in UTC.
type DateTimeData struct {
	nullable
	millis int64
}

func NewDateTime(t time.Time) *DateTimeData {
	d := &DateTimeData{}
	d.SetTime(t)
	return d
}

// NewDateTimeFromMillis builds a timestamp from its epoch-millisecond
// payload.
func NewDateTimeFromMillis(millis int64) *DateTimeData {
	return &DateTimeData{millis: millis}
}

func (d *DateTimeData) Type() Type        { return TypeDateTime }
func (d *DateTimeData) ElementType() Type { return TypeUndefined }
func (d *DateTimeData) ClassID() int32    { return ClassDateTimeData }
func (d *DateTimeData) Millis() int64     { return d.millis }

func (d *DateTimeData) Time() time.Time {
	return time.UnixMilli(d.millis).UTC()
}

func (d *DateTimeData) SetTime(t time.Time) {
	d.millis = t.UnixMilli()
	d.setNotNull()
}

func (d *DateTimeData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	switch v := src.(type) {
	case *DateTimeData:
		d.millis = v.millis
		d.setNotNull()
		return nil
	case *DateData:
		d.SetTime(v.Time())
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *DateTimeData) Copy() Data {
	c := *d
	return &c
}

func (d *DateTimeData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	switch v := other.(type) {
	case *DateTimeData:
		switch {
		case d.millis < v.millis:
			return -1
		case d.millis > v.millis:
			return 1
		}
		return 0
	case *DateData:
		return compareTime(d.Time(), v.Time())
	}
	return compareTypeOrder(d, other)
}

func (d *DateTimeData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *DateTimeData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.millis) ^ uint32(d.millis>>32)
}

func (d *DateTimeData) String() string {
	if d.null {
		return "(null)"
	}
	return d.Time().Format(dateTimeFormat)
}

func (d *DateTimeData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Int64(&d.millis)
	return a.Err()
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
