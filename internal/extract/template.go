// Package extract reconstructs typed order records from the semi-structured
// text of shipment-manifest pages. Extraction rules are grouped into vendor
// templates so that a differently laid out manifest only needs a new rule
// set, not new code.
package extract

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Metadata field names known to the extractor. Template files may only use
// these; anything else fails at load time.
const (
	FieldAddress      = "address"
	FieldDispatchDate = "dispatch_date"
	FieldShopName     = "shop_name"
	FieldOrderDate    = "order_date"
	FieldItemCount    = "item_count"
)

// Item field names, used in count-mismatch diagnostics.
const (
	FieldSKU        = "sku"
	FieldQuantity   = "quantity"
	FieldDesignCode = "design_code"
	FieldTitle      = "title"
)

type templateFile struct {
	Templates []templateSpec `yaml:"templates"`
}

type templateSpec struct {
	Name     string     `yaml:"name"`
	Metadata []ruleSpec `yaml:"metadata"`
	Items    struct {
		SKU        string `yaml:"sku"`
		Quantity   string `yaml:"quantity"`
		DesignCode string `yaml:"design_code"`
		Title      string `yaml:"title"`
	} `yaml:"items"`
}

type ruleSpec struct {
	Field   string `yaml:"field"`
	Pattern string `yaml:"pattern"`
}

// metaRule is one compiled single-valued extraction rule. Rules apply in
// declaration order and each must match exactly once.
type metaRule struct {
	field string
	re    *regexp.Regexp
}

// itemRules are the four compiled repeating-field patterns of a template.
type itemRules struct {
	sku        *regexp.Regexp
	quantity   *regexp.Regexp
	designCode *regexp.Regexp
	title      *regexp.Regexp
}

// Template is the extraction capability for one manifest vendor layout.
type Template struct {
	Name  string
	meta  []metaRule
	items itemRules
}

var knownMetaFields = map[string]struct{}{
	FieldAddress:      {},
	FieldDispatchDate: {},
	FieldShopName:     {},
	FieldOrderDate:    {},
	FieldItemCount:    {},
}

// LoadTemplates parses and compiles the embedded template definitions.
func LoadTemplates() (map[string]*Template, error) {
	return parseTemplates(templatesYAML)
}

func parseTemplates(raw []byte) (map[string]*Template, error) {
	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("no templates defined")
	}

	out := make(map[string]*Template, len(file.Templates))
	for _, spec := range file.Templates {
		if spec.Name == "" {
			return nil, fmt.Errorf("template without a name")
		}
		tmpl := &Template{Name: spec.Name}

		seen := make(map[string]struct{}, len(spec.Metadata))
		for _, rule := range spec.Metadata {
			if _, ok := knownMetaFields[rule.Field]; !ok {
				return nil, fmt.Errorf("template %s: unknown metadata field %q", spec.Name, rule.Field)
			}
			if _, dup := seen[rule.Field]; dup {
				return nil, fmt.Errorf("template %s: duplicate metadata field %q", spec.Name, rule.Field)
			}
			seen[rule.Field] = struct{}{}

			re, err := compileRule(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("template %s, field %s: %w", spec.Name, rule.Field, err)
			}
			tmpl.meta = append(tmpl.meta, metaRule{field: rule.Field, re: re})
		}
		if _, ok := seen[FieldItemCount]; !ok {
			return nil, fmt.Errorf("template %s: missing %s rule", spec.Name, FieldItemCount)
		}

		var err error
		if tmpl.items.sku, err = compileRule(spec.Items.SKU); err != nil {
			return nil, fmt.Errorf("template %s, field %s: %w", spec.Name, FieldSKU, err)
		}
		if tmpl.items.quantity, err = compileRule(spec.Items.Quantity); err != nil {
			return nil, fmt.Errorf("template %s, field %s: %w", spec.Name, FieldQuantity, err)
		}
		if tmpl.items.designCode, err = compileRule(spec.Items.DesignCode); err != nil {
			return nil, fmt.Errorf("template %s, field %s: %w", spec.Name, FieldDesignCode, err)
		}
		if tmpl.items.title, err = compileRule(spec.Items.Title); err != nil {
			return nil, fmt.Errorf("template %s, field %s: %w", spec.Name, FieldTitle, err)
		}

		out[spec.Name] = tmpl
	}
	return out, nil
}

// compileRule compiles a pattern in dot-matches-newline mode and enforces the
// single-capture-group contract.
func compileRule(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile("(?s)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return re, nil
}
