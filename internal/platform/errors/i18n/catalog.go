// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the fallback locale when a request names no known locale.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds the built-in and runtime-registered catalogs by locale.
	catalogs = map[string]*Catalog{}
	// locales mirrors the matcher's tag order.
	locales []string
	matcher language.Matcher
)

func init() {
	RegisterCatalog("en-US", enUSCatalog)
	RegisterCatalog("pt-BR", ptBRCatalog)
}

// GetCatalog returns the catalog for the given locale. Unknown locales are
// matched against the registered languages and fall back to en-US when
// nothing matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}
	if c, ok := lookupCatalog(matchLocale(requested)); ok {
		return c
	}
	if c, ok := lookupCatalog(BaseLocale); ok {
		return c
	}
	return NewCatalog(BaseLocale, nil)
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	// Ensure metadata is non-nil for template execution
	if metadata == nil {
		metadata = map[string]string{}
	}

	// Parse and execute the template
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale, replacing any
// existing one. The built-in locales are registered at init; tests may
// register additional catalogs.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
	rebuildMatcherLocked()
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

// matchLocale resolves a requested locale to the closest registered one.
func matchLocale(requested string) string {
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}

	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	if matcher == nil {
		return BaseLocale
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx >= len(locales) {
		return BaseLocale
	}
	return locales[idx]
}

// rebuildMatcherLocked rebuilds the language matcher. The base locale is
// listed first so it wins ties and no-confidence matches.
func rebuildMatcherLocked() {
	locales = locales[:0]
	tags := make([]language.Tag, 0, len(catalogs))
	add := func(locale string) {
		tag, err := language.Parse(locale)
		if err != nil {
			return
		}
		locales = append(locales, locale)
		tags = append(tags, tag)
	}

	if _, ok := catalogs[BaseLocale]; ok {
		add(BaseLocale)
	}
	for locale := range catalogs {
		if locale == BaseLocale {
			continue
		}
		add(locale)
	}

	if len(tags) == 0 {
		matcher = nil
		return
	}
	matcher = language.NewMatcher(tags)
}
