// services/i18n.go
package services

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"minesweeper-service/utils"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Catalog is one locale's nested message table.
type Catalog struct {
	Tag      language.Tag
	messages map[string]any
}

// T resolves a dotted key such as "popup.button.keep". A miss returns the
// key itself.
func (c *Catalog) T(key string) string {
	var node any = c.messages
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		if node, ok = m[part]; !ok {
			return key
		}
	}
	if s, ok := node.(string); ok {
		return s
	}
	return key
}

// Messages returns the raw nested table.
func (c *Catalog) Messages() map[string]any {
	return c.messages
}

// Translator picks a catalog for an Accept-Language header.
type Translator struct {
	catalogs []*Catalog
	matcher  language.Matcher
}

// NewTranslator loads the embedded catalogs, or the *.json files in dir when
// dir is set. defaultLocale is used when no requested language has a catalog.
func NewTranslator(defaultLocale, dir string) (*Translator, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	files, err := utils.ReadJSONFiles(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}
	return newTranslator(defaultLocale, files)
}

func newTranslator(defaultLocale string, files map[string][]byte) (*Translator, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LOCALE %q: %w", defaultLocale, err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	t := &Translator{}
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			log.Warnf("⚠️  [I18N] Skipping locale file %s.json: %v", name, err)
			continue
		}
		var messages map[string]any
		if err := json.Unmarshal(files[name], &messages); err != nil {
			return nil, fmt.Errorf("failed to decode locale %s: %w", name, err)
		}
		c := &Catalog{Tag: tag, messages: messages}
		// The matcher falls back to its first tag.
		if tag == fallback {
			t.catalogs = append([]*Catalog{c}, t.catalogs...)
		} else {
			t.catalogs = append(t.catalogs, c)
		}
	}
	if len(t.catalogs) == 0 || t.catalogs[0].Tag != fallback {
		return nil, fmt.Errorf("no catalog for default locale %q", defaultLocale)
	}

	tags := make([]language.Tag, len(t.catalogs))
	for i, c := range t.catalogs {
		tags[i] = c.Tag
	}
	t.matcher = language.NewMatcher(tags)
	log.Infof("🌐 [I18N] Loaded locales %v (default %s)", tags, fallback)
	return t, nil
}

// Default is the catalog of the default locale.
func (t *Translator) Default() *Catalog {
	return t.catalogs[0]
}

// Lookup returns the catalog that best matches an Accept-Language value.
func (t *Translator) Lookup(acceptLanguage string) *Catalog {
	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return t.Default()
	}
	_, index, confidence := t.matcher.Match(requested...)
	if confidence == language.No {
		return t.Default()
	}
	return t.catalogs[index]
}
