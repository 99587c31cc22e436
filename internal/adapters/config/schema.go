package config

import "go.trai.ch/zinc/internal/core/domain"

// SupportedVersion is the zinc.yaml format version this build reads.
const SupportedVersion = "1"

// Zincfile represents the structure of the zinc.yaml configuration file.
type Zincfile struct {
	Version     string                  `yaml:"version"`
	Incremental domain.IncOptionsRecord `yaml:"incremental"`
}
