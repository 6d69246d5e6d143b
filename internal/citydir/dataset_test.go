package citydir

import (
	"errors"
	"os"
	"testing"

	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{
  "ir": {
    "en": "Iran", "fa": "ایران", "ckb": "ئێران", "ar": "إيران",
    "cities": {
      "tehran": {"en": "Tehran", "fa": "تهران", "ckb": "تاران", "ar": "طهران",
                 "latitude": 35.6892, "longitude": 51.3890, "elevation": 1190},
      "gorgan": {"en": "Gorgan", "fa": "گرگان", "ckb": "گورگان", "ar": "جرجان",
                 "latitude": "36.8427", "longitude": "54.4439"}
    }
  },
  "af": {
    "en": "Afghanistan", "fa": "افغانستان", "ckb": "ئەفغانستان", "ar": "أفغانستان",
    "cities": {
      "kabul": {"en": "Kabul", "fa": "کابل", "ckb": "کابول", "ar": "كابل",
                "latitude": 34.5553, "longitude": 69.2075, "elevation": "1791"}
    }
  }
}`

func keys(records []model.CityRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestParse(t *testing.T) {
	records, err := Parse([]byte(sampleDataset))
	require.NoError(t, err)

	assert.Equal(t, []string{"tehran", "gorgan", "kabul"}, keys(records), "dataset order is preserved")

	tehran := records[0]
	assert.Equal(t, "ir", tehran.CountryCode)
	assert.Equal(t, model.Names{En: "Iran", Fa: "ایران", Ckb: "ئێران", Ar: "إيران"}, tehran.CountryNames)
	assert.Equal(t, "تهران", tehran.Names.Fa)
	assert.InDelta(t, 35.6892, tehran.Coordinate.Latitude, 1e-9)
	assert.Equal(t, 0.0, tehran.Coordinate.Elevation, "home country elevation is ignored")

	gorgan := records[1]
	assert.InDelta(t, 36.8427, gorgan.Coordinate.Latitude, 1e-9, "numeric strings are accepted")
	assert.Equal(t, 0.0, gorgan.Coordinate.Elevation)

	kabul := records[2]
	assert.Equal(t, "Afghanistan", kabul.CountryNames.En)
	assert.Equal(t, 1791.0, kabul.Coordinate.Elevation)
}

func TestLoad_MalformedYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"ir": {`},
		{"top level array", `[]`},
		{"country not an object", `{"ir": 5}`},
		{"missing country name", `{"ir": {"en": "Iran", "fa": "ایران", "ar": "إيران", "cities": {}}}`},
		{"missing cities", `{"ir": {"en": "Iran", "fa": "ایران", "ckb": "ئێران", "ar": "إيران"}}`},
		{"cities not an object", `{"ir": {"en": "Iran", "fa": "ایران", "ckb": "ئێران", "ar": "إيران", "cities": []}}`},
		{"missing city name", `{"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
			"kabul": {"en": "Kabul", "fa": "کابل", "ar": "كابل", "latitude": 1, "longitude": 2, "elevation": 3}}}}`},
		{"missing latitude", `{"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
			"kabul": {"en": "Kabul", "fa": "کابل", "ckb": "K", "ar": "كابل", "longitude": 2, "elevation": 3}}}}`},
		{"missing elevation outside home country", `{"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
			"kabul": {"en": "Kabul", "fa": "کابل", "ckb": "K", "ar": "كابل", "latitude": 1, "longitude": 2}}}}`},
		{"bad number", `{"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
			"kabul": {"en": "Kabul", "fa": "کابل", "ckb": "K", "ar": "كابل", "latitude": "north", "longitude": 2, "elevation": 3}}}}`},
		{"duplicate key across countries", `{
			"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
				"x": {"en": "X", "fa": "X", "ckb": "X", "ar": "X", "latitude": 1, "longitude": 2, "elevation": 3}}},
			"iq": {"en": "I", "fa": "I", "ckb": "I", "ar": "I", "cities": {
				"x": {"en": "X", "fa": "X", "ckb": "X", "ar": "X", "latitude": 1, "longitude": 2, "elevation": 3}}}}`},
		{"trailing data", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDataset))

			records := Load([]byte(tt.raw))
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestLoad_EmptyDataset(t *testing.T) {
	for _, raw := range []string{"{}", "", "  \n"} {
		records, err := Parse([]byte(raw))
		require.NoError(t, err)
		assert.Empty(t, records)

		sorted := Sort(Load([]byte(raw)), "fa")
		assert.NotNil(t, sorted)
		assert.Empty(t, sorted)
	}
}

func TestParsePartial(t *testing.T) {
	raw := `{
		"af": {"en": "A", "fa": "A", "ckb": "A", "ar": "A", "cities": {
			"kabul": {"en": "Kabul", "fa": "کابل", "ckb": "K", "ar": "كابل", "latitude": 1, "longitude": 2, "elevation": 3},
			"bad_city": {"en": "Bad"},
			"herat": {"en": "Herat", "fa": "هرات", "ckb": "H", "ar": "هرات", "latitude": 1, "longitude": 2, "elevation": 3}
		}},
		"bad_country": {"en": "Broken"},
		"iq": {"en": "I", "fa": "I", "ckb": "I", "ar": "I", "cities": {
			"kabul": {"en": "Dup", "fa": "D", "ckb": "D", "ar": "D", "latitude": 1, "longitude": 2, "elevation": 3},
			"erbil": {"en": "Erbil", "fa": "اربیل", "ckb": "E", "ar": "أربيل", "latitude": 1, "longitude": 2, "elevation": 3}
		}}
	}`

	records, err := ParsePartial([]byte(raw))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDataset))
	assert.Contains(t, err.Error(), "bad_city")
	assert.Contains(t, err.Error(), "bad_country")
	assert.Contains(t, err.Error(), "duplicate key")

	assert.Equal(t, []string{"kabul", "herat", "erbil"}, keys(records))
	assert.Equal(t, "Kabul", records[0].Names.En)

	// the strict parser rejects the same input as a whole
	assert.Empty(t, Load([]byte(raw)))
}

func TestParsePartial_CleanAndBroken(t *testing.T) {
	records, err := ParsePartial([]byte(sampleDataset))
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = ParsePartial([]byte(`not json`))
	require.Error(t, err)
	assert.Nil(t, records)
}

func TestLoad_BundledDataset(t *testing.T) {
	raw, err := os.ReadFile("../../data/cities.json")
	require.NoError(t, err)

	records, err := Parse(raw)
	require.NoError(t, err)
	assert.Len(t, records, 17)

	byKey := make(map[string]model.CityRecord)
	for _, r := range records {
		byKey[r.Key] = r
	}
	assert.Equal(t, 0.0, byKey["tehran"].Coordinate.Elevation)
	assert.Equal(t, 1791.0, byKey["kabul"].Coordinate.Elevation)
	assert.Equal(t, "Iraq", byKey["erbil"].CountryNames.En)
}
