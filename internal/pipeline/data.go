package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/lifecycle"
	"github.com/ppiankov/casefile/internal/model"
)

// ExportRequest selects the export encoding
type ExportRequest struct {
	Format     lifecycle.Format
	Recipients []string // age recipients; the export is encrypted when set
	Actor      string
}

// ExportData encodes the session snapshot for the person to take away.
// A session with no classification and no evidence has nothing to export.
func (p *Pipeline) ExportData(ctx context.Context, s *Session, req ExportRequest) ([]byte, error) {
	if s.Classification == nil && s.indexer.Len() == 0 {
		return nil, lifecycle.ErrNothingToExport
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	out, err := s.lifecycle.Export(ctx, payload, lifecycle.ExportOptions{
		Format:     req.Format,
		Recipients: req.Recipients,
		Actor:      req.Actor,
	})
	if err != nil {
		return nil, fmt.Errorf("export matter %s: %w", s.ID, err)
	}
	return out, nil
}

// DeleteRequest asks for the matter's data to be removed
type DeleteRequest struct {
	Actor     string
	Reason    string
	LegalHold bool
}

// DeleteData runs a deletion request through the retention policy. A
// completed deletion purges the classification and evidence; the audit
// log and retention policy are kept as the compliance record.
func (p *Pipeline) DeleteData(ctx context.Context, s *Session, req DeleteRequest) (model.DeletionResult, error) {
	result, err := s.lifecycle.RequestDeletion(ctx, model.DeletionRequest{
		MatterID:  s.ID,
		Actor:     req.Actor,
		Reason:    req.Reason,
		LegalHold: req.LegalHold,
	})
	if err != nil {
		return model.DeletionResult{}, err
	}
	p.metrics.RecordDeletion(string(result.Status))

	if result.Status == model.DeletionCompleted {
		s.Input = model.ClassificationInput{}
		s.Classification = nil
		s.Role = ""
		s.IsAppeal = false
		s.IsJudicialReview = false
		s.indexer = evidence.NewIndexer(p.logger)
		p.logger.Info("matter data purged", "matter", s.ID)
	}
	return result, nil
}

// SetLegalHold turns the matter's legal hold on or off
func (p *Pipeline) SetLegalHold(ctx context.Context, s *Session, on bool, reason, actor string) error {
	return s.lifecycle.SetLegalHold(ctx, on, reason, actor)
}

// SetRetention changes how long the matter's data is kept
func (p *Pipeline) SetRetention(ctx context.Context, s *Session, days int, actor string) error {
	return s.lifecycle.SetRetention(ctx, days, actor)
}

// Expired reports whether the session is past its retention period
func (p *Pipeline) Expired(s *Session) bool {
	return s.lifecycle.Expired(s.CreatedAt)
}
