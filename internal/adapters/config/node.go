package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/zinc/internal/adapters/logger"
	"go.trai.ch/zinc/internal/core/ports"
)

const NodeID graft.ID = "adapter.options_loader"

func init() {
	graft.Register(graft.Node[ports.OptionsLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.OptionsLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
