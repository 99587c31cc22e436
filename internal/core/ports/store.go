package ports

import "go.trai.ch/zinc/internal/core/domain"

// AnalysisStore defines the interface for storing and retrieving the options recorded with an analysis.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type AnalysisStore interface {
	// Get retrieves the analysis record for a given project.
	// Returns nil, nil if not found.
	Get(project string) (*domain.AnalysisRecord, error)

	// Put stores the analysis record.
	Put(record domain.AnalysisRecord) error
}
