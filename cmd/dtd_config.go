package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DTDBundle is the YAML shape of a DTD configuration file:
//
//	model: power_law
//	params:
//	  min_snia_time: 40
//	  slope: -1.1
//
// Params is passed through to gce.BuildDTD untouched — keyword validation
// against the model's schema happens there, so a typo in the file produces
// the engine's full keyword guide rather than being silently dropped.
type DTDBundle struct {
	Model  string         `yaml:"model"`
	Params map[string]any `yaml:"params"`
}

// LoadDTDBundle reads and parses a YAML DTD configuration file.
func LoadDTDBundle(path string) (*DTDBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DTD config: %w", err)
	}
	var bundle DTDBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing DTD config: %w", err)
	}
	if bundle.Params == nil {
		bundle.Params = map[string]any{}
	}
	return &bundle, nil
}
