package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocale(t *testing.T) {
	tests := map[string]string{
		"en":    "en-US",
		"hi":    "hi-IN",
		"te":    "te-IN",
		"HI":    "hi-IN",
		"te-IN": "te-IN",
		"fr":    DefaultLocale,
		"":      DefaultLocale,
		"??":    DefaultLocale,
	}
	for code, want := range tests {
		assert.Equal(t, want, Locale(code), "code %q", code)
	}
}

func TestLanguagesEnglishFirst(t *testing.T) {
	langs := Languages()

	assert.Len(t, langs, len(locales))
	assert.Equal(t, "en", langs[0].Code)
	assert.Equal(t, "English", langs[0].Name)
	for _, l := range langs {
		assert.NotEmpty(t, l.Name, l.Code)
		assert.Equal(t, Locale(l.Code), l.Locale)
	}
}

func TestNextLanguageWraps(t *testing.T) {
	langs := Languages()
	code := langs[0].Code
	seen := map[string]bool{}
	for range langs {
		seen[code] = true
		code = NextLanguage(code)
	}

	assert.Len(t, seen, len(langs))
	assert.Equal(t, langs[0].Code, code)
	assert.Equal(t, "en", NextLanguage("xx"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("bn"))
	assert.False(t, Supported("de"))
}
