// Package locale holds the language tables that drive city ordering and
// shift abbreviation shaping.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported language codes
const (
	LangFa   = "fa"
	LangFaAF = "fa-AF"
	LangPs   = "ps"
	LangAr   = "ar"
	LangCkb  = "ckb"
	LangEnIR = "en"
	LangEnUS = "en-US"
	LangJa   = "ja"
	LangGlk  = "glk"
	LangAzb  = "azb"
	LangUr   = "ur"
	LangTr   = "tr"

	DefaultLanguage = LangFa
)

// ZWJ keeps an abbreviated letter in its joined (medial) form.
const ZWJ = "\u200d"

// Supported lists every language the directory prebuilds an ordering for.
var Supported = []string{
	LangFa, LangFaAF, LangPs, LangAr, LangCkb, LangEnIR, LangEnUS, LangJa, LangGlk, LangAzb, LangUr, LangTr,
}

// Group is a regional language group owning a country preference order.
type Group string

const (
	GroupIran   Group = "iran"
	GroupAfghan Group = "afghan"
	GroupArabic Group = "arabic"
)

// NameField selects which localized name a language sorts and displays by.
type NameField string

const (
	FieldEn  NameField = "en"
	FieldFa  NameField = "fa"
	FieldCkb NameField = "ckb"
	FieldAr  NameField = "ar"
)

var groups = map[string]Group{
	LangFaAF: GroupAfghan,
	LangPs:   GroupAfghan,
	LangAr:   GroupArabic,
}

var nameFields = map[string]NameField{
	LangEnUS: FieldEn,
	LangJa:   FieldEn,
	LangEnIR: FieldEn,
	LangAr:   FieldAr,
	LangCkb:  FieldCkb,
}

// Normalize canonicalizes a host supplied language tag. Unparseable input
// is returned trimmed so that it simply falls into the default tables.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}

// GroupOf returns the country-order group for lang.
func GroupOf(lang string) Group {
	if g, ok := groups[lang]; ok {
		return g
	}
	return GroupIran
}

// NameFieldOf returns the name field used for lang.
func NameFieldOf(lang string) NameField {
	if f, ok := nameFields[lang]; ok {
		return f
	}
	return FieldFa
}

// Transliterated reports whether names of this field are compared through
// the Arabic sort key rather than as-is.
func (f NameField) Transliterated() bool {
	return f == FieldFa || f == FieldCkb
}

// AbbreviationJoiner returns the suffix appended to an abbreviated shift
// title. Arabic renders the joiner incorrectly, so it gets none.
func AbbreviationJoiner(lang string) string {
	if lang == LangAr {
		return ""
	}
	return ZWJ
}

// IsSupported reports whether lang has prebuilt tables.
func IsSupported(lang string) bool {
	for _, l := range Supported {
		if l == lang {
			return true
		}
	}
	return false
}

// Prebuilt returns the languages a directory should prebuild: configured
// when given, otherwise every Supported language.
func Prebuilt(configured []string) []string {
	if len(configured) == 0 {
		return append([]string(nil), Supported...)
	}
	return configured
}
