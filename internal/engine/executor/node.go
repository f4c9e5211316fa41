package executor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the executor Graft node.
const NodeID graft.ID = "engine.executor"

func init() {
	// Not cacheable: every invocation gets a fresh interner and memo store.
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: false,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.TracerNodeID,
			fs.DigesterNodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			inputs, err := graft.Dep[ports.InputMetadataProvider](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[*metrics.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return New(log, tracer, WithInputMetadata(inputs), WithObserver(m)), nil
		},
	})
}
