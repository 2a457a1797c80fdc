package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notecanvas/application/ports"
	"notecanvas/domain/core/valueobjects"
	"notecanvas/infrastructure/frontmatter"
	pkgerrors "notecanvas/pkg/errors"
	"notecanvas/pkg/observability"
)

// PositionService persists node positions back into note attributes. It
// re-reads the note immediately before patching so concurrent edits to the
// body are never clobbered.
type PositionService struct {
	repo    ports.NoteRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewPositionService creates a position write-back service
func NewPositionService(repo ports.NoteRepository, logger *zap.Logger, metrics *observability.Metrics) *PositionService {
	return &PositionService{repo: repo, logger: logger, metrics: metrics}
}

// Commit writes the rounded world position into the note's attribute block.
func (s *PositionService) Commit(ctx context.Context, id valueobjects.NoteID, world valueobjects.Vec2) error {
	log := s.logger.With(zap.String("op", uuid.NewString()), zap.String("note", id.String()))
	if !world.IsFinite() {
		return s.fail(log, pkgerrors.NewValidationError("position must be finite"))
	}

	text, err := s.repo.Read(ctx, id)
	if err != nil {
		return s.fail(log, err)
	}

	rounded := world.Rounded()
	patched := frontmatter.Apply(text, frontmatter.PositionPatch(int(math.Round(rounded.X)), int(math.Round(rounded.Y))))
	if patched == text {
		return nil
	}
	if err := s.repo.Write(ctx, id, patched); err != nil {
		return s.fail(log, err)
	}

	if s.metrics != nil {
		s.metrics.WriteBackSucceeded()
	}
	log.Debug("position committed",
		zap.Float64("x", rounded.X),
		zap.Float64("y", rounded.Y))
	return nil
}

func (s *PositionService) fail(log *zap.Logger, err error) error {
	if s.metrics != nil {
		s.metrics.WriteBackFailed()
	}
	log.Warn("position write-back failed", zap.Error(err))
	return err
}
