package shiftwork

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSegment is returned when a segment definition carries an
// unusable length.
var ErrInvalidSegment = errors.New("invalid shift segment")

// Segment is a run of consecutive days sharing one shift type.
type Segment struct {
	Key    string
	Length int
	// Rest is resolved when the schedule is built.
	Rest bool
}

// ParseSegments reads the persisted "key=length,key=length" format.
// Pairs that are not exactly key=value are ignored; a bad length rejects
// the whole definition.
func ParseSegments(raw string) ([]Segment, error) {
	var segments []Segment
	for _, part := range strings.Split(raw, ",") {
		kv := strings.Split(part, "=")
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		length, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSegment, part, err)
		}
		if length < 1 {
			return nil, fmt.Errorf("%w: %q: length must be positive", ErrInvalidSegment, part)
		}
		segments = append(segments, Segment{Key: key, Length: length})
	}
	return segments, nil
}

// FormatSegments is the inverse of ParseSegments.
func FormatSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Key+"="+strconv.Itoa(s.Length))
	}
	return strings.Join(parts, ",")
}

func validate(segments []Segment) error {
	for i, s := range segments {
		if s.Length < 1 {
			return fmt.Errorf("%w: segment %d (%q) has length %d", ErrInvalidSegment, i, s.Key, s.Length)
		}
	}
	return nil
}
