package i18n

import (
	"errors"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no explicit default is configured.
const DefaultLanguage = "en"

// Translator resolves message keys to localized strings. It is immutable
// after construction and safe for concurrent use.
type Translator struct {
	translations map[string]map[string]any
	defaultLang  string
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when the requested one has no
// translation for a key.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// NewTranslator parses a YAML catalog of the form language -> nested keys.
func NewTranslator(catalog []byte, opts ...Option) (*Translator, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(catalog, &raw); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}
	for lang, messages := range raw {
		if lang == "" || messages == nil {
			return nil, ErrInvalidCatalog
		}
	}

	t := &Translator{
		translations: raw,
		defaultLang:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// SupportedLanguages returns the catalog's language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// T returns the message for key in lang, falling back to the default
// language and finally to the key itself.
func (t *Translator) T(lang, key string) string {
	return t.Td(lang, key, key)
}

// Td is like T but returns defaultValue instead of the key when no
// translation exists in any language.
func (t *Translator) Td(lang, key, defaultValue string) string {
	if msg, ok := t.lookup(lang, key); ok {
		return msg
	}
	if lang != t.defaultLang {
		if msg, ok := t.lookup(t.defaultLang, key); ok {
			return msg
		}
	}
	return defaultValue
}

// lookup traverses a nested map using dot-separated keys, so
// "auth.login_failed" reads m["auth"]["login_failed"].
func (t *Translator) lookup(lang, key string) (string, bool) {
	current, ok := t.translations[lang]
	if !ok {
		return "", false
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			if s, ok := value.(string); ok {
				return s, true
			}
			return "", false
		}
		switch nested := value.(type) {
		case map[string]any:
			current = nested
		default:
			return "", false
		}
	}
	return "", false
}
