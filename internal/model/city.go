package model

import "github.com/alexivanou/calendar-core/internal/locale"

// Names holds the localized forms of a city or country name
type Names struct {
	En  string `json:"en"`
	Fa  string `json:"fa"`
	Ckb string `json:"ckb"`
	Ar  string `json:"ar"`
}

// Get returns the name stored in field
func (n Names) Get(field locale.NameField) string {
	switch field {
	case locale.FieldFa:
		return n.Fa
	case locale.FieldCkb:
		return n.Ckb
	case locale.FieldAr:
		return n.Ar
	default:
		return n.En
	}
}

// Coordinate is a geographic position with elevation in meters
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// CityRecord is one selectable city. Country names are denormalized onto
// every record of the country.
type CityRecord struct {
	Key          string     `json:"key"`
	Names        Names      `json:"names"`
	CountryCode  string     `json:"country_code"`
	CountryNames Names      `json:"country_names"`
	Coordinate   Coordinate `json:"coordinate"`
}

// Country represents a country in the database
type Country struct {
	Code     string `db:"code"`
	NameEn   string `db:"name_en"`
	NameFa   string `db:"name_fa"`
	NameCkb  string `db:"name_ckb"`
	NameAr   string `db:"name_ar"`
	Position int    `db:"position"`
}

// Names returns the country names as a Names value
func (c Country) Names() Names {
	return Names{En: c.NameEn, Fa: c.NameFa, Ckb: c.NameCkb, Ar: c.NameAr}
}
