package citydir

import (
	"slices"
	"testing"

	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func city(key, country string, names model.Names) model.CityRecord {
	return model.CityRecord{Key: key, CountryCode: country, Names: names}
}

func bundled(t *testing.T) []model.CityRecord {
	t.Helper()
	records := []model.CityRecord{
		city("tehran", "ir", model.Names{En: "Tehran", Fa: "تهران", Ckb: "تاران", Ar: "طهران"}),
		city("mashhad", "ir", model.Names{En: "Mashhad", Fa: "مشهد", Ckb: "مەشهەد", Ar: "مشهد"}),
		city("isfahan", "ir", model.Names{En: "Isfahan", Fa: "اصفهان", Ckb: "ئیسفەهان", Ar: "أصفهان"}),
		city("shiraz", "ir", model.Names{En: "Shiraz", Fa: "شیراز", Ckb: "شیراز", Ar: "شيراز"}),
		city("tabriz", "ir", model.Names{En: "Tabriz", Fa: "تبریز", Ckb: "تەورێز", Ar: "تبريز"}),
		city("kermanshah", "ir", model.Names{En: "Kermanshah", Fa: "کرمانشاه", Ckb: "کرماشان", Ar: "كرمانشاه"}),
		city("gorgan", "ir", model.Names{En: "Gorgan", Fa: "گرگان", Ckb: "گورگان", Ar: "جرجان"}),
		city("kabul", "af", model.Names{En: "Kabul", Fa: "کابل", Ckb: "کابول", Ar: "كابل"}),
		city("baghdad", "iq", model.Names{En: "Baghdad", Fa: "بغداد", Ckb: "بەغدا", Ar: "بغداد"}),
		city("erbil", "iq", model.Names{En: "Erbil", Fa: "اربیل", Ckb: "هەولێر", Ar: "أربيل"}),
		city("sulaymaniyah", "iq", model.Names{En: "Sulaymaniyah", Fa: "سلیمانیه", Ckb: "سلێمانی", Ar: "السليمانية"}),
		city("basra", "iq", model.Names{En: "Basra", Fa: "بصره", Ckb: "بەسرە", Ar: "البصرة"}),
		city("istanbul", "tr", model.Names{En: "Istanbul", Fa: "استانبول", Ckb: "ئەستەنبوڵ", Ar: "إسطنبول"}),
	}
	require.Len(t, records, 13)
	return records
}

func inCountry(records []model.CityRecord, code string) []string {
	var out []string
	for _, r := range records {
		if r.CountryCode == code {
			out = append(out, r.Key)
		}
	}
	return out
}

func distinctCountries(records []model.CityRecord) []string {
	var out []string
	for _, r := range records {
		if len(out) == 0 || out[len(out)-1] != r.CountryCode {
			out = append(out, r.CountryCode)
		}
	}
	return out
}

func TestSort_SyntheticEntriesPinned(t *testing.T) {
	auto := model.CityRecord{Key: AutoDetectKey}
	us := city("us", "us", model.Names{En: "Somewhere"})
	custom := city(DefaultCityKey, "zz", model.Names{})

	for _, lang := range []string{locale.DefaultLanguage, "en-US", "ar", "ckb", "fa-AF"} {
		sorted := Sort([]model.CityRecord{custom, us, auto}, lang)
		assert.Equal(t, []string{AutoDetectKey, "us", DefaultCityKey}, keys(sorted), lang)
	}

	// pinned entries are never outranked by a listed country
	zz := city("zz_city", "zz", model.Names{En: "Z", Fa: "ز"})
	sorted := Sort([]model.CityRecord{custom, zz, auto}, "fa")
	assert.Equal(t, []string{AutoDetectKey, "zz_city", DefaultCityKey}, keys(sorted))
}

func TestSort_CountryOrderPerGroup(t *testing.T) {
	records := bundled(t)

	tests := []struct {
		lang     string
		expected []string
	}{
		{"fa", []string{"ir", "tr", "af", "iq"}},
		{"en", []string{"ir", "tr", "af", "iq"}},
		{"fa-AF", []string{"af", "ir", "tr", "iq"}},
		{"ps", []string{"af", "ir", "tr", "iq"}},
		{"ar", []string{"iq", "tr", "ir", "af"}},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.expected, distinctCountries(Sort(records, tt.lang)))
		})
	}
}

func TestSort_NamesWithinCountry(t *testing.T) {
	records := bundled(t)

	assert.Equal(t,
		[]string{"gorgan", "isfahan", "kermanshah", "mashhad", "shiraz", "tabriz", "tehran"},
		inCountry(Sort(records, "en-US"), "ir"))

	// ک and گ collate with ك, ahead of م, once mapped
	assert.Equal(t,
		[]string{"isfahan", "tabriz", "tehran", "shiraz", "kermanshah", "gorgan", "mashhad"},
		inCountry(Sort(records, "fa"), "ir"))

	assert.Equal(t,
		[]string{"erbil", "basra", "sulaymaniyah", "baghdad"},
		inCountry(Sort(records, "ar"), "iq"))

	assert.Equal(t,
		[]string{"basra", "baghdad", "sulaymaniyah", "erbil"},
		inCountry(Sort(records, "ckb"), "iq"))
}

func TestArabicSortKey(t *testing.T) {
	assert.Equal(t, ArabicSortKey("یک"), ArabicSortKey("يك"))
	assert.Equal(t, "يك", ArabicSortKey("یک"))
	assert.Equal(t, "كیركیان", ArabicSortKey("گرگان"))
	assert.Equal(t, "بهیسرهی", ArabicSortKey("بەسرە"))
	assert.Equal(t, "Tehran", ArabicSortKey("Tehran"))

	a := city("a", "ir", model.Names{Fa: "یک"})
	b := city("b", "ir", model.Names{Fa: "يك"})
	assert.Equal(t, 0, Compare(a, b, "fa"))

	sorted := Sort([]model.CityRecord{b, a}, "fa")
	assert.Equal(t, []string{"b", "a"}, keys(sorted), "equal keys keep input order")
	assert.Equal(t, "یک", sorted[1].Names.Fa, "display name untouched")
}

func TestCountryRank(t *testing.T) {
	assert.Equal(t, 0, CountryRank("zz", locale.GroupIran))
	assert.Equal(t, 1, CountryRank("ir", locale.GroupIran))
	assert.Equal(t, 1, CountryRank("af", locale.GroupAfghan))
	assert.Equal(t, 1, CountryRank("iq", locale.GroupArabic))
	assert.Equal(t, 5, CountryRank("us", locale.GroupIran))
	assert.Equal(t, 5, CountryRank("", locale.GroupArabic))
}

func TestSort_UnknownCountriesLast(t *testing.T) {
	records := append(bundled(t), city("paris", "fr", model.Names{En: "Paris", Fa: "پاریس", Ckb: "پاریس", Ar: "باريس"}))
	sorted := Sort(records, "fa")
	assert.Equal(t, "paris", sorted[len(sorted)-1].Key)
}

func TestCompare_Consistent(t *testing.T) {
	records := append(bundled(t),
		model.CityRecord{Key: AutoDetectKey},
		city(DefaultCityKey, "zz", model.Names{}),
		city("paris", "fr", model.Names{En: "Paris", Fa: "پاریس"}),
	)
	for _, lang := range locale.Supported {
		for _, a := range records {
			assert.Equal(t, 0, Compare(a, a, lang))
			for _, b := range records {
				assert.Equal(t, Compare(a, b, lang), -Compare(b, a, lang), "%s %s/%s", lang, a.Key, b.Key)
			}
		}
		sorted := Sort(records, lang)
		assert.True(t, slices.IsSortedFunc(sorted, func(a, b model.CityRecord) int {
			return Compare(a, b, lang)
		}), lang)
	}
}

func TestSort_InputUntouched(t *testing.T) {
	records := bundled(t)
	before := slices.Clone(records)

	sorted := Sort(records, "ar")
	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}

	byKey := func(list []model.CityRecord) []model.CityRecord {
		out := slices.Clone(list)
		slices.SortFunc(out, func(a, b model.CityRecord) int { return cmpString(a.Key, b.Key) })
		return out
	}
	if diff := cmp.Diff(byKey(before), byKey(sorted)); diff != "" {
		t.Errorf("sort changed the set of records (-want +got):\n%s", diff)
	}

	assert.NotNil(t, Sort(nil, "fa"))
	assert.Empty(t, Sort(nil, "fa"))
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
