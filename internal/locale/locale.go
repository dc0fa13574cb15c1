// Package locale resolves display strings and the default unit system for
// a language tag.
package locale

import (
	_ "embed"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/measure-cli/internal/units"
)

//go:embed strings/en.yaml
var builtinStrings []byte

// DefaultTag is used when no locale is configured.
var DefaultTag = language.AmericanEnglish

// ParseTag parses a BCP 47 tag such as "en-US".
func ParseTag(s string) (language.Tag, error) {
	if s == "" {
		return DefaultTag, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, eris.Wrapf(err, "locale: parse tag %q", s)
	}
	return tag, nil
}

// DetectUnitSystem returns Imperial for US English and Metric otherwise.
// The region must be explicit: a bare "en" is metric.
func DetectUnitSystem(tag language.Tag) units.System {
	base, _ := tag.Base()
	region, conf := tag.Region()
	if base.String() == "en" && conf == language.Exact && region.String() == "US" {
		return units.Imperial
	}
	return units.Metric
}

// Catalog looks up translated strings for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog builds a catalog from the built-in strings followed by each
// override document, in order. Later documents replace earlier keys.
func NewCatalog(tag language.Tag, overrides ...[]byte) (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, doc := range append([][]byte{builtinStrings}, overrides...) {
		if err := addDocument(b, doc); err != nil {
			return nil, err
		}
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

// LoadCatalog is NewCatalog with an optional override file on disk.
func LoadCatalog(tag language.Tag, path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(tag)
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "locale: read %s", path)
	}
	return NewCatalog(tag, doc)
}

// Tag returns the catalog language.
func (c *Catalog) Tag() language.Tag { return c.tag }

// T returns the string for key formatted with args. Unknown keys are
// returned as-is.
func (c *Catalog) T(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// addDocument registers a YAML document of the form
// {lang: {key: string | {plural-case: string}}}.
func addDocument(b *catalog.Builder, doc []byte) error {
	var langs map[string]map[string]yaml.Node
	if err := yaml.Unmarshal(doc, &langs); err != nil {
		return eris.Wrap(err, "locale: parse strings")
	}

	for lang, entries := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return eris.Wrapf(err, "locale: parse language %q", lang)
		}
		for key, node := range entries {
			if err := addEntry(b, tag, key, &node); err != nil {
				return err
			}
		}
	}
	return nil
}

func addEntry(b *catalog.Builder, tag language.Tag, key string, node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if err := b.SetString(tag, key, node.Value); err != nil {
			return eris.Wrapf(err, "locale: set %s/%s", tag, key)
		}
		return nil

	case yaml.MappingNode:
		var forms map[string]string
		if err := node.Decode(&forms); err != nil {
			return eris.Wrapf(err, "locale: decode plural %s", key)
		}
		other, ok := forms["other"]
		if !ok {
			return eris.Errorf("locale: plural %s/%s has no other form", tag, key)
		}
		selectors := make([]string, 0, len(forms))
		for sel := range forms {
			if sel != "other" {
				selectors = append(selectors, sel)
			}
		}
		sort.Strings(selectors)

		cases := make([]interface{}, 0, 2*len(forms))
		for _, sel := range selectors {
			cases = append(cases, sel, forms[sel])
		}
		cases = append(cases, "other", other)

		if err := b.Set(tag, key, plural.Selectf(1, "%d", cases...)); err != nil {
			return eris.Wrapf(err, "locale: set %s/%s", tag, key)
		}
		return nil
	}
	return eris.Errorf("locale: unsupported value for %s/%s", tag, key)
}
