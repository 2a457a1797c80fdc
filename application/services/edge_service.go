package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notecanvas/application/ports"
	"notecanvas/domain/core/valueobjects"
	"notecanvas/infrastructure/frontmatter"
	pkgerrors "notecanvas/pkg/errors"
	"notecanvas/pkg/observability"
)

// EdgeService persists edge changes into note attributes. Edges are stored
// as references on the declaring note; the graph treats them as undirected,
// so deletion strips the connection from both endpoints.
type EdgeService struct {
	repo    ports.NoteRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewEdgeService creates an edge write-back service
func NewEdgeService(repo ports.NoteRepository, logger *zap.Logger, metrics *observability.Metrics) *EdgeService {
	return &EdgeService{repo: repo, logger: logger, metrics: metrics}
}

// CreateEdge appends a reference to target on the source note. Self-edges
// are rejected, and an edge already declared on either endpoint is a
// conflict.
func (s *EdgeService) CreateEdge(ctx context.Context, source, target valueobjects.NoteID) error {
	log := s.logger.With(zap.String("op", uuid.NewString()),
		zap.String("source", source.String()),
		zap.String("target", target.String()))
	if source.Equals(target) {
		return s.fail(log, pkgerrors.NewValidationError("a note cannot link to itself"))
	}

	sourceText, err := s.repo.Read(ctx, source)
	if err != nil {
		return s.fail(log, err)
	}
	targetText, err := s.repo.Read(ctx, target)
	if err != nil {
		return s.fail(log, err)
	}

	if s.declares(frontmatter.Read(sourceText).Edges, source, target) ||
		s.declares(frontmatter.Read(targetText).Edges, target, source) {
		return s.fail(log, pkgerrors.NewConflictError("edge already exists"))
	}

	edges := append(frontmatter.Read(sourceText).Edges, refFor(source, target))
	patched := frontmatter.Apply(sourceText, frontmatter.EdgesPatch(edges))
	if err := s.repo.Write(ctx, source, patched); err != nil {
		return s.fail(log, err)
	}

	if s.metrics != nil {
		s.metrics.WriteBackSucceeded()
	}
	log.Info("edge created")
	return nil
}

// DeleteEdge removes every reference between the two notes, on both sides.
// Returns a NotFound error when neither note declares the connection.
func (s *EdgeService) DeleteEdge(ctx context.Context, a, b valueobjects.NoteID) error {
	log := s.logger.With(zap.String("op", uuid.NewString()),
		zap.String("a", a.String()),
		zap.String("b", b.String()))
	removedA, errA := s.removeRefs(ctx, a, b)
	removedB, errB := s.removeRefs(ctx, b, a)
	if errA != nil {
		return s.fail(log, errA)
	}
	if errB != nil {
		return s.fail(log, errB)
	}
	if !removedA && !removedB {
		return pkgerrors.NewNotFoundError("edge")
	}

	if s.metrics != nil {
		s.metrics.WriteBackSucceeded()
	}
	log.Info("edge deleted")
	return nil
}

// removeRefs strips references resolving to target from the note's edge
// list. Reports whether anything was removed.
func (s *EdgeService) removeRefs(ctx context.Context, id, target valueobjects.NoteID) (bool, error) {
	text, err := s.repo.Read(ctx, id)
	if err != nil {
		return false, err
	}

	edges := frontmatter.Read(text).Edges
	kept := edges[:0:0]
	for _, ref := range edges {
		resolved, ok := s.repo.Resolve(ref, id)
		if ok && resolved.Equals(target) {
			continue
		}
		kept = append(kept, ref)
	}
	if len(kept) == len(edges) {
		return false, nil
	}

	patched := frontmatter.Apply(text, frontmatter.EdgesPatch(kept))
	if err := s.repo.Write(ctx, id, patched); err != nil {
		return false, err
	}
	return true, nil
}

// declares reports whether any reference in edges resolves to target.
func (s *EdgeService) declares(edges []string, from, target valueobjects.NoteID) bool {
	for _, ref := range edges {
		if resolved, ok := s.repo.Resolve(ref, from); ok && resolved.Equals(target) {
			return true
		}
	}
	return false
}

func (s *EdgeService) fail(log *zap.Logger, err error) error {
	if s.metrics != nil {
		s.metrics.WriteBackFailed()
	}
	log.Warn("edge write-back failed", zap.Error(err))
	return err
}

// refFor renders the reference string stored on the source note: the bare
// basename for a sibling, otherwise the vault-relative path, both without
// the note extension.
func refFor(source, target valueobjects.NoteID) string {
	if source.Dir() == target.Dir() {
		return strings.TrimSuffix(target.Base(), valueobjects.NoteExtension)
	}
	return strings.TrimSuffix(target.String(), valueobjects.NoteExtension)
}
