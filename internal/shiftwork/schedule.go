// Package shiftwork resolves which shift of a repeating work/rest cycle
// falls on a given Julian Day Number.
package shiftwork

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// UnsetStart marks a schedule that has no starting day.
const UnsetStart int64 = -1

// MaxDays bounds a single Days call.
const MaxDays = 3660

// ErrInvalidStart is returned for a negative start other than UnsetStart.
var ErrInvalidStart = errors.New("invalid shift start day")

// DefaultRestKey is the shift type treated as rest when none is configured.
const DefaultRestKey = "r"

// DefaultTitles maps the built-in shift types to their display titles.
var DefaultTitles = map[string]string{
	"d": "Day",
	"r": "Rest",
	"e": "Evening",
	"m": "Morning",
	"n": "Night",
}

// Settings is the raw host configuration a schedule is built from. Raw is
// parsed with ParseSegments when Segments is empty.
type Settings struct {
	Raw      string
	Segments []Segment
	StartJDN int64
	Recurs   bool
	Titles   map[string]string
	RestKeys []string
}

// Schedule is an immutable shift cycle. It is safe for concurrent use.
type Schedule struct {
	segments []Segment
	titles   map[string]string
	start    int64
	recurs   bool
	period   int64
}

// Label is the shift active on a day.
type Label struct {
	Key   string
	Title string
	Rest  bool
}

// Abbreviation returns the first character of the title.
func (l Label) Abbreviation() string {
	if l.Title == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(l.Title)
	return l.Title[:size]
}

// Day is a resolved day of a range query.
type Day struct {
	JDN   int64
	Label Label
	Found bool
	Text  string
}

// Empty returns the neutral schedule every malformed configuration falls
// back to. It resolves no label for any day.
func Empty() *Schedule {
	return &Schedule{start: UnsetStart, recurs: true, titles: map[string]string{}}
}

// New builds a schedule from settings. On malformed segments it returns
// Empty together with the error so the caller can log it and carry on.
func New(settings Settings) (*Schedule, error) {
	if settings.StartJDN < 0 && settings.StartJDN != UnsetStart {
		return Empty(), fmt.Errorf("%w: %d", ErrInvalidStart, settings.StartJDN)
	}
	segments := settings.Segments
	if len(segments) == 0 && settings.Raw != "" {
		parsed, err := ParseSegments(settings.Raw)
		if err != nil {
			return Empty(), err
		}
		segments = parsed
	}
	if err := validate(segments); err != nil {
		return Empty(), err
	}

	titles := make(map[string]string, len(settings.Titles))
	for k, v := range settings.Titles {
		titles[k] = v
	}

	rest := make(map[string]bool)
	for _, key := range settings.RestKeys {
		rest[key] = true
		if title, ok := titles[key]; ok {
			rest[title] = true
		}
	}

	s := &Schedule{
		segments: make([]Segment, len(segments)),
		titles:   titles,
		start:    settings.StartJDN,
		recurs:   settings.Recurs,
	}
	for i, seg := range segments {
		seg.Rest = rest[seg.Key]
		s.segments[i] = seg
		s.period += int64(seg.Length)
	}
	return s, nil
}

// Period is the sum of all segment lengths.
func (s *Schedule) Period() int64 { return s.period }

// StartJDN is day zero of the cycle, or UnsetStart.
func (s *Schedule) StartJDN() int64 { return s.start }

// Recurs reports whether the cycle repeats after one traversal.
func (s *Schedule) Recurs() bool { return s.recurs }

// Segments returns a copy of the segments in cycle order.
func (s *Schedule) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// TitleOf resolves the display title of a shift type, falling back to the
// key itself.
func (s *Schedule) TitleOf(key string) string {
	if title, ok := s.titles[key]; ok {
		return title
	}
	return key
}

// Lookup returns the shift active on day jdn. The second result is false
// when the day is before the start, past the end of a non-recurring
// schedule, or the schedule is empty.
func (s *Schedule) Lookup(jdn int64) (Label, bool) {
	if s.start == UnsetStart || jdn < s.start || s.period == 0 {
		return Label{}, false
	}

	elapsed := jdn - s.start
	if !s.recurs && elapsed >= s.period {
		return Label{}, false
	}

	position := elapsed % s.period
	var accumulated int64
	for _, seg := range s.segments {
		accumulated += int64(seg.Length)
		if accumulated > position {
			return Label{Key: seg.Key, Title: s.TitleOf(seg.Key), Rest: seg.Rest}, true
		}
	}

	// unreachable while period equals the sum of lengths
	return Label{}, false
}

// Title returns the text shown for day jdn, "" meaning no label. In
// abbreviated mode rest days of a recurring schedule are omitted and
// other shifts shrink to their first character.
func (s *Schedule) Title(jdn int64, abbreviated bool) string {
	label, ok := s.Lookup(jdn)
	if !ok {
		return ""
	}
	if !abbreviated {
		return label.Title
	}
	if label.Rest && s.recurs {
		return ""
	}
	return label.Abbreviation()
}

// Days resolves every day in [from, to]. A reversed range or one longer
// than MaxDays yields nil.
func (s *Schedule) Days(from, to int64, abbreviated bool) []Day {
	if to < from || uint64(to)-uint64(from) >= MaxDays {
		return nil
	}
	span := int64(uint64(to) - uint64(from))
	days := make([]Day, 0, span+1)
	for i := int64(0); i <= span; i++ {
		n := from + i
		label, ok := s.Lookup(n)
		days = append(days, Day{
			JDN:   n,
			Label: label,
			Found: ok,
			Text:  s.Title(n, abbreviated),
		})
	}
	return days
}
