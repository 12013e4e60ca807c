package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/honeyguard/honeygate/pkg/i18n"
)

const defaultLocalesDir = "pkg/i18n/locales"

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "compile":
		runCompile(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: honeygate-locales <generate|compile> [flags]")
	fmt.Fprintln(os.Stderr, "  generate  create missing locale catalogs and merge new base keys")
	fmt.Fprintln(os.Stderr, "  compile   validate every catalog and write the compiled bundle")
}

// runGenerate walks the base locale catalogs and brings every supported
// locale up to the same key set. Existing translations are never touched;
// new keys land with the base text so translators can find them.
func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	dir := fs.String("dir", defaultLocalesDir, "locale catalog root")
	_ = fs.Parse(args)

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Fatalf("locale directory %s does not exist", *dir)
	}

	basePaths, err := filepath.Glob(filepath.Join(*dir, i18n.BaseLocale, "*.yaml"))
	if err != nil || len(basePaths) == 0 {
		log.Fatalf("no base locale catalogs under %s", filepath.Join(*dir, i18n.BaseLocale))
	}

	for _, basePath := range basePaths {
		base, err := i18n.ReadCatalogFile(basePath)
		if err != nil {
			log.Fatalf("generate: %v", err)
		}

		for _, locale := range i18n.SupportedLocales {
			if locale == i18n.BaseLocale {
				continue
			}
			if err := mergeLocale(*dir, locale, base); err != nil {
				log.Fatalf("generate %s: %v", locale, err)
			}
		}
	}
}

func mergeLocale(root, locale string, base i18n.CatalogFile) error {
	path := filepath.Join(root, locale, base.Namespace+".yaml")

	target := i18n.CatalogFile{
		Locale:    locale,
		Namespace: base.Namespace,
		Messages:  map[string]string{},
	}
	if _, err := os.Stat(path); err == nil {
		existing, err := i18n.ReadCatalogFile(path)
		if err != nil {
			return err
		}
		target = existing
	}

	added := 0
	for key, value := range base.Messages {
		if _, ok := target.Messages[key]; !ok {
			target.Messages[key] = value
			added++
		}
	}
	if added == 0 {
		return nil
	}

	if err := i18n.WriteCatalogFile(path, target); err != nil {
		return err
	}
	fmt.Printf("%s: %d new message(s)\n", path, added)
	return nil
}

// runCompile loads the catalogs the same way the server does, so every
// validation the server would trip on fails the build here instead.
func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	dir := fs.String("dir", defaultLocalesDir, "locale catalog root")
	out := fs.String("out", "", "compiled bundle path (default <dir>/compiled/messages.json.gz)")
	_ = fs.Parse(args)

	bundle, err := i18n.LoadDir(*dir)
	if err != nil {
		log.Fatalf("compile: %v", err)
	}

	target := *out
	if target == "" {
		target = filepath.Join(*dir, "compiled", "messages.json.gz")
	}

	if err := writeCompiledBundle(target, bundle); err != nil {
		log.Fatalf("compile: %v", err)
	}
	fmt.Printf("compiled %d locale(s) to %s\n", len(bundle.Locales()), target)
}

type compiledBundle struct {
	GeneratedAt time.Time                    `json:"generated_at"`
	BaseLocale  string                       `json:"base_locale"`
	Locales     map[string]map[string]string `json:"locales"`
}

func writeCompiledBundle(path string, bundle *i18n.Bundle) error {
	compiled := compiledBundle{
		GeneratedAt: time.Now().UTC(),
		BaseLocale:  i18n.BaseLocale,
		Locales:     map[string]map[string]string{},
	}
	for _, locale := range bundle.Locales() {
		compiled.Locales[locale] = bundle.Messages(locale)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(compiled); err != nil {
		_ = gz.Close()
		_ = f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
