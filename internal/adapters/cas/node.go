package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/zinc/internal/core/ports"
)

const NodeID graft.ID = "adapter.analysis_store"

func init() {
	graft.Register(graft.Node[ports.AnalysisStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.AnalysisStore, error) {
			store, err := NewStore(DefaultStorePath)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
