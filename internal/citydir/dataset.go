// Package citydir loads the nested geographic dataset into flat city
// records and orders them for selection lists.
package citydir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloudeng.io/errors"
	"github.com/alexivanou/calendar-core/internal/model"
)

// ErrMalformedDataset wraps every dataset parse failure.
var ErrMalformedDataset = errors.New("malformed city dataset")

// HomeCountry is the country whose elevation is always treated as zero;
// its prayer time method does not apply elevation correction.
const HomeCountry = "ir"

type countryEntry struct {
	En     *string         `json:"en"`
	Fa     *string         `json:"fa"`
	Ckb    *string         `json:"ckb"`
	Ar     *string         `json:"ar"`
	Cities json.RawMessage `json:"cities"`
}

type cityEntry struct {
	En        *string `json:"en"`
	Fa        *string `json:"fa"`
	Ckb       *string `json:"ckb"`
	Ar        *string `json:"ar"`
	Latitude  *number `json:"latitude"`
	Longitude *number `json:"longitude"`
	Elevation *number `json:"elevation"`
}

// number accepts both JSON numbers and numeric strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = number(f)
	return nil
}

// Parse reads the whole dataset and fails on the first malformed entry.
func Parse(raw []byte) ([]model.CityRecord, error) {
	p := &parser{strict: true}
	if err := p.run(raw); err != nil {
		return nil, err
	}
	return p.records, nil
}

// Load returns every record of the dataset, or an empty list if any part
// of it is malformed.
func Load(raw []byte) []model.CityRecord {
	records, err := Parse(raw)
	if err != nil {
		return []model.CityRecord{}
	}
	return records
}

// ParsePartial keeps every well-formed city and reports the rest as a
// multi-error. A dataset that is not a JSON object yields no records.
func ParsePartial(raw []byte) ([]model.CityRecord, error) {
	p := &parser{}
	if err := p.run(raw); err != nil {
		return nil, err
	}
	return p.records, p.diagnostics.Err()
}

type parser struct {
	strict      bool
	diagnostics errors.M
	seen        map[string]string
	records     []model.CityRecord
}

func (p *parser) run(raw []byte) error {
	p.seen = make(map[string]string)
	p.records = []model.CityRecord{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	err := forEachMember(raw, func(code string, value json.RawMessage) error {
		return p.entry(p.country(code, value))
	})
	if err != nil {
		return wrap(err)
	}
	return nil
}

// entry decides whether a per-entry failure aborts the parse.
func (p *parser) entry(err error) error {
	if err == nil || p.strict {
		return err
	}
	p.diagnostics.Append(wrap(err))
	return nil
}

func (p *parser) country(code string, value json.RawMessage) error {
	var c countryEntry
	if err := json.Unmarshal(value, &c); err != nil {
		return fmt.Errorf("country %q: %w", code, err)
	}
	names, err := requireNames(c.En, c.Fa, c.Ckb, c.Ar)
	if err != nil {
		return fmt.Errorf("country %q: %w", code, err)
	}
	if len(c.Cities) == 0 {
		return fmt.Errorf("country %q: missing \"cities\"", code)
	}

	var cities []model.CityRecord
	local := make(map[string]bool)
	err = forEachMember(c.Cities, func(key string, value json.RawMessage) error {
		record, err := p.city(code, names, key, value, local)
		if err := p.entry(err); err != nil {
			return err
		}
		if err == nil {
			local[key] = true
			cities = append(cities, record)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("country %q: cities: %w", code, err)
	}

	for _, record := range cities {
		p.seen[record.Key] = code
	}
	p.records = append(p.records, cities...)
	return nil
}

func (p *parser) city(code string, countryNames model.Names, key string, value json.RawMessage, local map[string]bool) (model.CityRecord, error) {
	if other, dup := p.seen[key]; dup {
		return model.CityRecord{}, fmt.Errorf("city %q of %q: duplicate key, first seen in %q", key, code, other)
	}
	if local[key] {
		return model.CityRecord{}, fmt.Errorf("city %q of %q: duplicate key", key, code)
	}

	var c cityEntry
	if err := json.Unmarshal(value, &c); err != nil {
		return model.CityRecord{}, fmt.Errorf("city %q of %q: %w", key, code, err)
	}
	names, err := requireNames(c.En, c.Fa, c.Ckb, c.Ar)
	if err != nil {
		return model.CityRecord{}, fmt.Errorf("city %q of %q: %w", key, code, err)
	}
	if c.Latitude == nil || c.Longitude == nil {
		return model.CityRecord{}, fmt.Errorf("city %q of %q: missing coordinates", key, code)
	}

	var elevation float64
	if code != HomeCountry {
		if c.Elevation == nil {
			return model.CityRecord{}, fmt.Errorf("city %q of %q: missing \"elevation\"", key, code)
		}
		elevation = float64(*c.Elevation)
	}

	return model.CityRecord{
		Key:          key,
		Names:        names,
		CountryCode:  code,
		CountryNames: countryNames,
		Coordinate: model.Coordinate{
			Latitude:  float64(*c.Latitude),
			Longitude: float64(*c.Longitude),
			Elevation: elevation,
		},
	}, nil
}

func requireNames(en, fa, ckb, ar *string) (model.Names, error) {
	fields := []struct {
		name  string
		value *string
	}{{"en", en}, {"fa", fa}, {"ckb", ckb}, {"ar", ar}}
	for _, f := range fields {
		if f.value == nil {
			return model.Names{}, fmt.Errorf("missing %q", f.name)
		}
	}
	return model.Names{En: *en, Fa: *fa, Ckb: *ckb, Ar: *ar}, nil
}

// forEachMember walks a JSON object in document order.
func forEachMember(raw []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after the object")
	}
	return nil
}

func wrap(err error) error {
	if errors.Is(err, ErrMalformedDataset) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMalformedDataset, err)
}
