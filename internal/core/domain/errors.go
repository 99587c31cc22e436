package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownClassFileManager is returned when a class file manager kind name is not recognised.
	ErrUnknownClassFileManager = zerr.New("unknown class file manager")

	// ErrUnsupportedConfigVersion is returned when a configuration file declares a version this build cannot read.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrNoProject is returned when an analysis operation is requested without a project name.
	ErrNoProject = zerr.New("no project specified")
)
