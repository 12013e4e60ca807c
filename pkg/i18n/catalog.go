package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale. Every key must exist here;
// other locales fall back to it per key.
const BaseLocale = "en"

// SupportedLocales lists the locales the decoy pages ship with. The base
// locale comes first; the rest are sorted.
var SupportedLocales = []string{
	"en",
	"ar", "cs", "da", "de", "el", "es", "fa", "fi", "fr",
	"he", "hu", "it", "ja", "ko", "nb", "nl", "pl", "pt-BR", "ro",
	"ru", "sv", "tr", "uk", "zh-Hans", "zh-Hant",
}

// CatalogFile is one catalog file in parsed form. The locale tooling
// reads and writes catalogs through it; the server only sees Bundles.
type CatalogFile struct {
	Locale    string
	Namespace string
	Messages  map[string]string
}

// LocaleCatalog holds all messages for one locale.
type LocaleCatalog struct {
	Locale   string
	Messages map[string]string
}

// Bundle contains every locale catalog plus the matcher used to resolve
// Accept-Language headers against them.
type Bundle struct {
	locales      map[string]*LocaleCatalog
	matchLocales []string
	matcher      language.Matcher
	fallback     string
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return load(embeddedFS, "locales/*/*.yaml")
}

// LoadDir loads catalogs from a locales directory on disk. Used by the
// locale tooling; the server always runs from the embedded copy.
func LoadDir(dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("locale directory %s does not exist", dir)
	}
	return load(os.DirFS(dir), "*/*.yaml")
}

func load(fsys fs.FS, pattern string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		parsed, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := bundle.add(path, parsed); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is missing", BaseLocale)
	}
	if err := bundle.buildMatcher(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (b *Bundle) add(path string, file CatalogFile) error {
	dirLocale := filepath.Base(filepath.Dir(path))
	if file.Locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", path, file.Locale, dirLocale)
	}

	fileNamespace := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if file.Namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", path, file.Namespace, fileNamespace)
	}

	catalog, ok := b.locales[file.Locale]
	if !ok {
		catalog = &LocaleCatalog{
			Locale:   file.Locale,
			Messages: map[string]string{},
		}
		b.locales[file.Locale] = catalog
	}

	for key, value := range file.Messages {
		if _, exists := catalog.Messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", path, key, file.Locale)
		}
		catalog.Messages[key] = value
	}
	return nil
}

func (b *Bundle) buildMatcher() error {
	ordered := make([]string, 0, len(b.locales))
	ordered = append(ordered, BaseLocale)
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			ordered = append(ordered, locale)
		}
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, locale := range ordered {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags = append(tags, tag)
	}

	b.matchLocales = ordered
	b.matcher = language.NewMatcher(tags)
	return nil
}

// Register publishes every catalog message to the x/text registry so that
// message.NewPrinter callers resolve the same strings as the bundle.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		messages := b.locales[locale].Messages
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := message.SetString(tag, key, messages[key]); err != nil {
				return fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
	}
	return nil
}

// SetFallback changes the locale served when a request's Accept-Language
// matches nothing in the bundle. The locale must exist in the bundle.
func (b *Bundle) SetFallback(locale string) error {
	locale = strings.TrimSpace(locale)
	if !b.HasLocale(locale) {
		return fmt.Errorf("unknown fallback locale %q", locale)
	}
	b.fallback = locale
	return nil
}

// MatchLocale resolves an Accept-Language header value to the closest
// shipped locale. Unknown or empty values fall back to the configured
// fallback locale, by default the base locale.
func (b *Bundle) MatchLocale(acceptLanguage string) string {
	fallback := b.fallback
	if fallback == "" {
		fallback = BaseLocale
	}
	accept := strings.TrimSpace(acceptLanguage)
	if accept == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	// Appended last, the fallback only matches when no requested language
	// does, and it then beats the matcher's base-locale default.
	if tag, err := language.Parse(fallback); err == nil {
		tags = append(tags, tag)
	}
	_, index, _ := b.matcher.Match(tags...)
	return b.matchLocales[index]
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message returns one message with per-key base-locale fallback.
func (b *Bundle) Message(locale, key string) (string, bool) {
	trimmedLocale := strings.TrimSpace(locale)
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", false
	}
	if catalog, ok := b.locales[trimmedLocale]; ok {
		if value, exists := catalog.Messages[trimmedKey]; exists {
			return value, true
		}
	}
	if trimmedLocale != BaseLocale {
		if catalog, ok := b.locales[BaseLocale]; ok {
			value, exists := catalog.Messages[trimmedKey]
			return value, exists
		}
	}
	return "", false
}

// Messages returns a copy of the locale's message map. Keys missing from
// the locale are filled from the base locale.
func (b *Bundle) Messages(locale string) map[string]string {
	out := map[string]string{}
	if base, ok := b.locales[BaseLocale]; ok {
		for key, value := range base.Messages {
			out[key] = value
		}
	}
	if catalog, ok := b.locales[strings.TrimSpace(locale)]; ok {
		for key, value := range catalog.Messages {
			out[key] = value
		}
	}
	return out
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}

func parseCatalog(data []byte) (CatalogFile, error) {
	out := CatalogFile{Messages: map[string]string{}}
	inMessages := false

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := unquote(strings.TrimPrefix(line, "locale:"))
			if err != nil {
				return CatalogFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.Locale = value
		case strings.HasPrefix(line, "namespace:"):
			value, err := unquote(strings.TrimPrefix(line, "namespace:"))
			if err != nil {
				return CatalogFile{}, fmt.Errorf("parse namespace: %w", err)
			}
			out.Namespace = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return CatalogFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseEntry(line)
			if err != nil {
				return CatalogFile{}, fmt.Errorf("parse entry %q: %w", line, err)
			}
			if key == "" {
				return CatalogFile{}, fmt.Errorf("blank message key")
			}
			if _, exists := out.Messages[key]; exists {
				return CatalogFile{}, fmt.Errorf("duplicate key %q", key)
			}
			out.Messages[key] = value
		}
	}

	if out.Locale == "" {
		return CatalogFile{}, fmt.Errorf("missing locale")
	}
	if out.Namespace == "" {
		return CatalogFile{}, fmt.Errorf("missing namespace")
	}
	if len(out.Messages) == 0 {
		return CatalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

// parseEntry parses one `"key": "value"` line. Both sides are Go-quoted
// so translations can carry colons, quotes, and markup.
func parseEntry(line string) (string, string, error) {
	keyToken, rest, err := splitQuoted(line)
	if err != nil {
		return "", "", err
	}
	key, err := strconv.Unquote(keyToken)
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := unquote(strings.TrimPrefix(rest, ":"))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return strings.TrimSpace(key), value, nil
}

func unquote(value string) (string, error) {
	return strconv.Unquote(strings.TrimSpace(value))
}

// splitQuoted returns the leading quoted token and the remainder of the
// line, honoring backslash escapes inside the token.
func splitQuoted(line string) (string, string, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "\"") {
		return "", "", fmt.Errorf("expected quoted token")
	}
	escaped := false
	for i := 1; i < len(trimmed); i++ {
		switch {
		case escaped:
			escaped = false
		case trimmed[i] == '\\':
			escaped = true
		case trimmed[i] == '"':
			return trimmed[:i+1], trimmed[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted token")
}
