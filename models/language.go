package models

// Language is a supported content language code.
type Language string

const (
	LangEN     Language = "en"
	LangJP     Language = "jp"
	LangZhHans Language = "zhHans"
)

// Languages lists every supported language code.
var Languages = []Language{LangEN, LangJP, LangZhHans}

func (l Language) Valid() bool {
	switch l {
	case LangEN, LangJP, LangZhHans:
		return true
	}
	return false
}

// ParseLanguage resolves a raw query value to a Language, defaulting to
// English when the value is empty. Unknown codes pass through unchanged so
// lookups for them miss naturally instead of silently becoming English.
func ParseLanguage(s string) Language {
	if s == "" {
		return LangEN
	}
	return Language(s)
}

// LocalizedText holds one string per supported language. The closed struct
// replaces the free-form per-language object maps of earlier iterations so
// the language set is enforced at compile time.
type LocalizedText struct {
	EN     string `bson:"en" json:"en"`
	JP     string `bson:"jp" json:"jp"`
	ZhHans string `bson:"zhHans" json:"zhHans"`
}

// Get returns the value for lang, or "" when the language is unknown or the
// value is unset.
func (t LocalizedText) Get(lang Language) string {
	switch lang {
	case LangEN:
		return t.EN
	case LangJP:
		return t.JP
	case LangZhHans:
		return t.ZhHans
	}
	return ""
}

// GetOrEnglish returns the value for lang, falling back to English when the
// requested language has no value. Fallback happens only at read time; writes
// require every language to be present.
func (t LocalizedText) GetOrEnglish(lang Language) string {
	if v := t.Get(lang); v != "" {
		return v
	}
	return t.EN
}

// Complete reports whether every supported language has a value.
func (t LocalizedText) Complete() bool {
	return t.EN != "" && t.JP != "" && t.ZhHans != ""
}
