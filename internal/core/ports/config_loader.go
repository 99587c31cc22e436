package ports

import "go.trai.ch/zinc/internal/core/domain"

// OptionsLoader defines the interface for producing incremental options from user configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type OptionsLoader interface {
	// Load reads the configuration found in the given working directory and returns the options.
	// Fields the configuration does not mention keep their defaults.
	Load(cwd string) (domain.IncOptions, error)
}
