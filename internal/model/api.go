package model

import "time"

// CityItem is a city as shown in a selection list
type CityItem struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Country     string     `json:"country"`
	CountryCode string     `json:"country_code"`
	Coordinate  Coordinate `json:"coordinate"`
}

// CityListResponse represents the sorted directory for one language
type CityListResponse struct {
	Language string     `json:"language"`
	Count    int        `json:"count"`
	Results  []CityItem `json:"results"`
}

// CityDetailResponse represents detailed information about a city
type CityDetailResponse struct {
	CityItem
	Names        Names `json:"names"`
	CountryNames Names `json:"country_names"`
}

// NearestCityResponse represents the closest stored city to a position
type NearestCityResponse struct {
	City               CityDetailResponse `json:"city"`
	RequestCoordinates Coordinate         `json:"request_coordinates"`
	DistanceKm         float64            `json:"distance_km"`
}

// ShiftDayRequest asks for the shift label of one day
type ShiftDayRequest struct {
	JDN         int64
	Abbreviated bool
	Lang        string
}

// ShiftDay is the resolved shift for a single day
type ShiftDay struct {
	JDN          int64  `json:"jdn"`
	Date         string `json:"date"`
	Found        bool   `json:"found"`
	Key          string `json:"key,omitempty"`
	Label        string `json:"label"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Rest         bool   `json:"rest"`
}

// ShiftRangeRequest asks for labels of consecutive days, both ends inclusive
type ShiftRangeRequest struct {
	From        int64
	To          int64
	Abbreviated bool
	Lang        string
}

// ShiftRangeResponse lists resolved days in order
type ShiftRangeResponse struct {
	From int64      `json:"from"`
	To   int64      `json:"to"`
	Days []ShiftDay `json:"days"`
}

// ShiftSegment is one segment of a schedule on the wire
type ShiftSegment struct {
	Key    string `json:"key"`
	Length int    `json:"length"`
	Title  string `json:"title"`
	Rest   bool   `json:"rest"`
}

// ShiftScheduleRequest replaces the active schedule. Setting uses the
// comma-joined "key=length" format; StartDate overrides StartJDN.
type ShiftScheduleRequest struct {
	Setting   string            `json:"setting"`
	StartJDN  int64             `json:"start_jdn"`
	StartDate string            `json:"start_date,omitempty"`
	Recurs    *bool             `json:"recurs"`
	Titles    map[string]string `json:"titles"`
	RestKeys  []string          `json:"rest_keys"`
}

// ShiftScheduleResponse describes the active schedule
type ShiftScheduleResponse struct {
	Setting   string         `json:"setting"`
	StartJDN  int64          `json:"start_jdn"`
	Recurs    bool           `json:"recurs"`
	Period    int64          `json:"period"`
	StartDate string         `json:"start_date,omitempty"`
	Segments  []ShiftSegment `json:"segments"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CountryItem is a country in preference order for a language
type CountryItem struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Names Names  `json:"names"`
}

// CountryListResponse lists countries for one language
type CountryListResponse struct {
	Language string        `json:"language"`
	Count    int           `json:"count"`
	Results  []CountryItem `json:"results"`
}
