package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ReadCatalogFile parses one catalog file from disk.
func ReadCatalogFile(path string) (CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	parsed, err := parseCatalog(data)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return parsed, nil
}

// WriteCatalogFile writes a catalog in the canonical format: header fields
// first, then messages sorted by key. The locale directory is created if
// it does not exist yet.
func WriteCatalogFile(path string, file CatalogFile) error {
	if file.Locale == "" || file.Namespace == "" {
		return fmt.Errorf("catalog %s: locale and namespace are required", path)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: refusing to write an empty catalog", path)
	}

	keys := make([]string, 0, len(file.Messages))
	for key := range file.Messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "locale: %s\n", strconv.Quote(file.Locale))
	fmt.Fprintf(&b, "namespace: %s\n", strconv.Quote(file.Namespace))
	b.WriteString("messages:\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", strconv.Quote(key), strconv.Quote(file.Messages[key]))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
