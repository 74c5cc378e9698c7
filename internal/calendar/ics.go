package calendar

import (
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/zeebo/xxh3"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

const (
	// DefaultLocation is set as LOCATION on every event
	DefaultLocation = "East West University, Dhaka"
	// DefaultTimezone is the TZID of the single VTIMEZONE block
	DefaultTimezone = "Asia/Dhaka"
	// DefaultOffset is the fixed UTC offset of DefaultTimezone; it observes no DST
	DefaultOffset = "+0600"

	ProductID = "-//ewucal//Academic Calendar//EN"
)

// VTIMEZONE properties without a ComponentProperty constant of their own
const (
	propTZID         ics.ComponentProperty = "TZID"
	propTZName       ics.ComponentProperty = "TZNAME"
	propTZOffsetFrom ics.ComponentProperty = "TZOFFSETFROM"
	propTZOffsetTo   ics.ComponentProperty = "TZOFFSETTO"
)

// standardEpoch is the DTSTART of the STANDARD observance
const standardEpoch = "19700101T000000"

// Hasher maps event text to a 64-bit identifier
type Hasher func(text string) uint64

// Emitter renders CalendarDetails as iCalendar text
type Emitter struct {
	hash     Hasher
	location string
	tzid     string
	offset   string
}

// Option configures an Emitter
type Option func(*Emitter)

// WithHasher replaces the default XXH3-64 identifier hash
func WithHasher(h Hasher) Option {
	return func(e *Emitter) {
		e.hash = h
	}
}

// WithLocation sets the LOCATION used for every event
func WithLocation(location string) Option {
	return func(e *Emitter) {
		e.location = location
	}
}

// WithTimezone sets the VTIMEZONE id and its fixed offset, e.g. ("Asia/Dhaka", "+0600")
func WithTimezone(tzid, offset string) Option {
	return func(e *Emitter) {
		e.tzid = tzid
		e.offset = offset
	}
}

// NewEmitter creates an Emitter with the institution defaults
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		hash:     xxh3.HashString,
		location: DefaultLocation,
		tzid:     DefaultTimezone,
		offset:   DefaultOffset,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EventID returns the hex identifier for an event text.
// Identical texts share an identifier.
func (e *Emitter) EventID(text string) string {
	return strconv.FormatUint(e.hash(text), 16)
}

// ICS renders details as an iCalendar document. now is used for DTSTAMP and CREATED.
func (e *Emitter) ICS(details *event.CalendarDetails, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	name := details.DisplayName()
	cal.SetName(name)
	cal.SetXWRCalName(name)

	cal.Components = append(cal.Components, e.timezone())

	for _, entry := range details.Entries {
		ev := cal.AddEvent(e.EventID(entry.EventText))
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(now)
		ev.SetModifiedAt(entry.RevisionDate.Time())
		ev.SetAllDayStartAt(entry.StartDate.Time())
		// DTEND is the last included day, not the exclusive day after it.
		ev.SetAllDayEndAt(entry.LastDate().Time())
		ev.SetSummary(entry.EventText)
		ev.SetLocation(e.location)
	}

	return cal.Serialize()
}

// timezone builds a VTIMEZONE with a single fixed-offset STANDARD observance
func (e *Emitter) timezone() *ics.VTimezone {
	std := &ics.Standard{}
	std.SetProperty(ics.ComponentPropertyDtStart, standardEpoch)
	std.SetProperty(propTZOffsetFrom, e.offset)
	std.SetProperty(propTZOffsetTo, e.offset)
	std.SetProperty(propTZName, e.offset)

	tz := &ics.VTimezone{}
	tz.SetProperty(propTZID, e.tzid)
	tz.Components = append(tz.Components, std)
	return tz
}

// FileName is the download name of an export, e.g. "Fall - 2024-09-01.ics"
func FileName(details *event.CalendarDetails) string {
	return fmt.Sprintf("%s - %s.ics", details.Semester, details.RevisionDate)
}
