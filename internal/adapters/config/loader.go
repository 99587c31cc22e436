// Package config provides the zinc.yaml options loader.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"go.trai.ch/zinc/internal/core/domain"
	"go.trai.ch/zinc/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working directory.
const DefaultFilename = "zinc.yaml"

var _ ports.OptionsLoader = (*Loader)(nil)

// Loader implements ports.OptionsLoader using a YAML file.
type Loader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a Loader reading DefaultFilename.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Filename: DefaultFilename, logger: logger}
}

// Load reads the configuration from the given working directory.
// A missing file yields the default options.
func (l *Loader) Load(cwd string) (domain.IncOptions, error) {
	path := filepath.Join(cwd, l.Filename)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		l.logger.Info("no " + l.Filename + " found, using default incremental options")
		return domain.NewIncOptions(), nil
	}
	return Load(path)
}

// Load reads a configuration file from the given path and returns the options it describes.
func Load(path string) (domain.IncOptions, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.IncOptions{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	opts, err := Parse(data)
	if err != nil {
		return domain.IncOptions{}, zerr.With(err, "path", path)
	}
	return opts, nil
}

// Parse decodes zinc.yaml content. Keys that are not part of the format are rejected;
// options that are not mentioned keep their defaults.
func Parse(data []byte) (domain.IncOptions, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var zincfile Zincfile
	if err := dec.Decode(&zincfile); err != nil && !errors.Is(err, io.EOF) {
		return domain.IncOptions{}, zerr.Wrap(err, "failed to parse config file")
	}

	if zincfile.Version != "" && zincfile.Version != SupportedVersion {
		return domain.IncOptions{}, zerr.With(domain.ErrUnsupportedConfigVersion, "version", zincfile.Version)
	}

	opts, err := zincfile.Incremental.Apply(domain.NewIncOptions())
	if err != nil {
		return domain.IncOptions{}, zerr.Wrap(err, "invalid incremental options")
	}
	return opts, nil
}
