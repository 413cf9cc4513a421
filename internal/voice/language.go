package voice

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLocale is used for unknown language codes.
const DefaultLocale = "en-US"

// DefaultLanguage is the language code used when none is configured.
const DefaultLanguage = "en"

var locales = map[string]string{
	"en": "en-US",
	"hi": "hi-IN",
	"te": "te-IN",
	"ta": "ta-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"mr": "mr-IN",
	"bn": "bn-IN",
	"gu": "gu-IN",
}

// Language describes a supported language.
type Language struct {
	Code   string
	Locale string
	Name   string // English name
	Native string // name in the language itself
}

// Normalize reduces a language code or tag ("HI", "hi-IN", "te_IN") to its base
// code. Unparseable input is returned unchanged.
func Normalize(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

// Locale maps a short language code to a recognizer locale.
func Locale(code string) string {
	if loc, ok := locales[Normalize(code)]; ok {
		return loc
	}
	return DefaultLocale
}

// Supported reports whether code maps to a known locale.
func Supported(code string) bool {
	_, ok := locales[Normalize(code)]
	return ok
}

// Languages lists the supported languages ordered by code, English first.
func Languages() []Language {
	codes := languageCodes()
	out := make([]Language, 0, len(codes))
	namer := display.English.Tags()
	for _, code := range codes {
		tag := language.Make(code)
		out = append(out, Language{
			Code:   code,
			Locale: locales[code],
			Name:   namer.Name(tag),
			Native: display.Self.Name(tag),
		})
	}
	return out
}

// NextLanguage returns the code following code in Languages order, wrapping around.
func NextLanguage(code string) string {
	codes := languageCodes()
	current := Normalize(code)
	for i, c := range codes {
		if c == current {
			return codes[(i+1)%len(codes)]
		}
	}
	return codes[0]
}

func languageCodes() []string {
	codes := make([]string, 0, len(locales))
	for code := range locales {
		if code != DefaultLanguage {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return append([]string{DefaultLanguage}, codes...)
}
