// Package jobfile loads the per-batch job file: a JSON document naming every
// input and output path of one run. Job files are hand-edited by the shop, so
// they are schema-validated before anything touches the filesystem.
package jobfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/swanseaprintco/manifest-press/internal/common"
)

// Job describes one batch run.
type Job struct {
	// PackName is the original manifest pack file; its name carries the
	// batch reference.
	PackName string `json:"pack_name"`

	// Inputs.
	PagesDir      string `json:"pages_dir"`
	LabelsDir     string `json:"labels_dir,omitempty"`
	AssetFolder   string `json:"image_folder"`
	SKUFile       string `json:"sku_file"`
	PriceFile     string `json:"price_file"`
	DescFile      string `json:"descriptions_file"`
	CustomersFile string `json:"customers_file"`

	// Outputs.
	TargetAssetFolder string `json:"output_image_folder"`
	OutputFolder      string `json:"output_folder"`

	// Template selects the vendor extraction template; empty means the
	// configured default.
	Template string `json:"template,omitempty"`
}

// buildSchema is the job file's JSON schema as a generic map.
func buildSchema() map[string]any {
	pathProp := map[string]any{"type": "string", "minLength": 1}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"pack_name":           pathProp,
			"pages_dir":           pathProp,
			"labels_dir":          map[string]any{"type": "string"},
			"image_folder":        pathProp,
			"sku_file":            pathProp,
			"price_file":          pathProp,
			"descriptions_file":   pathProp,
			"customers_file":      pathProp,
			"output_image_folder": pathProp,
			"output_folder":       pathProp,
			"template":            map[string]any{"type": "string"},
		},
		"required": []string{
			"pack_name", "pages_dir", "image_folder", "sku_file",
			"price_file", "descriptions_file", "customers_file",
			"output_image_folder", "output_folder",
		},
	}
}

// Load reads, validates and parses the job file at path. Relative paths in
// the job are resolved against the job file's directory.
func Load(path string) (*Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}

	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{
		&job.PagesDir, &job.LabelsDir, &job.AssetFolder, &job.SKUFile,
		&job.PriceFile, &job.DescFile, &job.CustomersFile,
		&job.TargetAssetFolder, &job.OutputFolder,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return &job, nil
}

// validate checks raw against the job schema.
func validate(raw []byte) error {
	b, err := json.Marshal(buildSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("job.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("job.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}
