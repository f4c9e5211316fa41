package resource

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
)

// CollectorNodeID is the unique identifier for the resource collector Graft node.
const CollectorNodeID graft.ID = "engine.resource.collector"

func init() {
	graft.Register(graft.Node[*Collector]{
		ID:        CollectorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Collector, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCollector(log), nil
		},
	})
}
