package citydir

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/model"
)

// Synthetic keys the host may add to the list.
const (
	// AutoDetectKey always sorts first.
	AutoDetectKey = ""
	// DefaultCityKey always sorts last.
	DefaultCityKey = "CUSTOM"
)

// countryOrders lists the preferred country order of each language group.
var countryOrders = map[locale.Group][]string{
	locale.GroupIran:   {"zz", "ir", "tr", "af", "iq"},
	locale.GroupAfghan: {"zz", "af", "ir", "tr", "iq"},
	locale.GroupArabic: {"zz", "iq", "tr", "ir", "af"},
}

// Persian and Kurdish letterforms mapped to their nearest Arabic-script
// spelling. Sources never overlap, so one pass equals applying each pair
// in turn.
var arabicSortReplacer = strings.NewReplacer(
	"ی", "ي",
	"ک", "ك",
	"گ", "كی",
	"ژ", "زی",
	"چ", "جی",
	"پ", "بی",
	"ڕ", "ری",
	"ڵ", "لی",
	"ڤ", "فی",
	"ۆ", "وی",
	"ێ", "یی",
	"ھ", "نی",
	"ە", "هی",
)

// ArabicSortKey returns the comparison key of a Persian or Kurdish name.
// The displayed name is never changed.
func ArabicSortKey(text string) string {
	return arabicSortReplacer.Replace(text)
}

// CountryRank returns the position of code in the group's preference
// order. Unknown codes rank after every listed one.
func CountryRank(code string, group locale.Group) int {
	order := countryOrders[group]
	if i := slices.Index(order, code); i >= 0 {
		return i
	}
	return len(order)
}

type sortKey struct {
	// -1 auto-detect entry, 1 default city, 0 everything else
	pin  int
	rank int
	name string
}

type keyer struct {
	group locale.Group
	field locale.NameField
}

func newKeyer(lang string) keyer {
	return keyer{group: locale.GroupOf(lang), field: locale.NameFieldOf(lang)}
}

func (k keyer) key(r model.CityRecord) sortKey {
	switch r.Key {
	case AutoDetectKey:
		return sortKey{pin: -1}
	case DefaultCityKey:
		return sortKey{pin: 1}
	}
	name := r.Names.Get(k.field)
	if k.field.Transliterated() {
		name = ArabicSortKey(name)
	}
	return sortKey{rank: CountryRank(r.CountryCode, k.group), name: name}
}

func compareKeys(a, b sortKey) int {
	if c := cmp.Compare(a.pin, b.pin); c != 0 || a.pin != 0 {
		return c
	}
	if c := cmp.Compare(a.rank, b.rank); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

// Compare orders two records for lang: the auto-detect entry first, the
// default city last, then by country rank and name.
func Compare(a, b model.CityRecord, lang string) int {
	k := newKeyer(lang)
	return compareKeys(k.key(a), k.key(b))
}

// Sort returns the records ordered for lang. The sort is stable and the
// input is left untouched.
func Sort(records []model.CityRecord, lang string) []model.CityRecord {
	k := newKeyer(lang)
	type item struct {
		key    sortKey
		record model.CityRecord
	}
	items := make([]item, len(records))
	for i, r := range records {
		items[i] = item{key: k.key(r), record: r}
	}
	slices.SortStableFunc(items, func(a, b item) int {
		return compareKeys(a.key, b.key)
	})

	sorted := make([]model.CityRecord, len(items))
	for i, it := range items {
		sorted[i] = it.record
	}
	return sorted
}
