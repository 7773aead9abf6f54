package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FlowPath    string // flow document (json)
	CatalogPath string // node type manifests (hcl)

	LogFormat    string
	LogLevel     string
	ReportFormat string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("CatalogPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
