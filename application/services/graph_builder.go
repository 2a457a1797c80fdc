// Package services contains the application-layer use cases: building the
// graph from the vault and writing position and edge changes back to notes.
package services

import (
	"context"

	"go.uber.org/zap"

	"notecanvas/application/ports"
	"notecanvas/domain/core/aggregates"
	"notecanvas/domain/core/entities"
	"notecanvas/domain/core/valueobjects"
	"notecanvas/infrastructure/frontmatter"
	pkgerrors "notecanvas/pkg/errors"
	"notecanvas/pkg/observability"
)

// GraphBuilder rebuilds the canvas graph from note attributes. A note joins
// the graph only when both coordinates are present; edge references that do
// not resolve to a positioned note are logged and skipped.
type GraphBuilder struct {
	repo    ports.NoteRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewGraphBuilder creates a graph builder service
func NewGraphBuilder(repo ports.NoteRepository, logger *zap.Logger, metrics *observability.Metrics) *GraphBuilder {
	return &GraphBuilder{repo: repo, logger: logger, metrics: metrics}
}

// Build lists the vault, reads every note's attributes, and assembles the
// graph. filterPrefix restricts the graph to a vault subdirectory; the empty
// prefix includes everything.
func (b *GraphBuilder) Build(ctx context.Context, filterPrefix string) (*aggregates.Graph, error) {
	ids, err := b.repo.List(ctx, filterPrefix)
	if err != nil {
		return nil, err
	}

	graph := aggregates.NewGraph()
	records := make(map[valueobjects.NoteID]frontmatter.Record, len(ids))

	for _, id := range ids {
		text, err := b.repo.Read(ctx, id)
		if err != nil {
			// A note can vanish between List and Read; keep building.
			b.logger.Warn("skipping unreadable note", zap.String("note", id.String()), zap.Error(err))
			continue
		}
		record := frontmatter.Read(text)
		records[id] = record
		if !record.HasPosition() {
			continue
		}

		pos, err := valueobjects.NewVec2(*record.NodeX, *record.NodeY)
		if err != nil {
			b.logger.Warn("skipping note with non-finite position", zap.String("note", id.String()))
			continue
		}
		size := 0.0
		if record.NodeSize != nil {
			size = *record.NodeSize
		}
		node, err := entities.NewNode(id, pos, size)
		if err != nil {
			b.logger.Warn("skipping invalid node", zap.String("note", id.String()), zap.Error(err))
			continue
		}
		if err := graph.AddNode(node); err != nil {
			b.logger.Warn("skipping duplicate node", zap.String("note", id.String()), zap.Error(err))
		}
	}

	for _, id := range ids {
		record, ok := records[id]
		if !ok {
			continue
		}
		for _, ref := range record.Edges {
			target, ok := b.repo.Resolve(ref, id)
			if !ok {
				b.logger.Debug("edge reference does not resolve",
					zap.String("note", id.String()), zap.String("ref", ref))
				continue
			}
			if _, err := graph.ConnectNodes(id, target); err != nil {
				// Duplicates are expected when both endpoints declare the
				// edge; anything else is worth a log line.
				if !pkgerrors.IsConflict(err) {
					b.logger.Debug("skipping edge",
						zap.String("note", id.String()),
						zap.String("ref", ref),
						zap.Error(err))
				}
			}
		}
	}

	if b.metrics != nil {
		b.metrics.ObserveGraph(graph.NodeCount(), graph.EdgeCount())
	}
	b.logger.Info("graph rebuilt",
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", graph.EdgeCount()),
		zap.String("filter", filterPrefix))
	return graph, nil
}
