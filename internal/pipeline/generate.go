package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/casefile/internal/domain"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/upl"
)

// GenerateRequest controls document generation for a classified matter
type GenerateRequest struct {
	Notes        string
	Role         string // Overrides the intake role for criminal matters
	ConfirmAll   bool
	FormMappings []pack.FormMapping // Loaded from packaging.form_mappings when nil
	PackageName  string
	Actor        string
}

// GenerateResult is the drafted package and its readiness
type GenerateResult struct {
	Drafts    []model.DocumentDraft `json:"drafts"`
	Package   model.DocumentPackage `json:"package"`
	Readiness model.Readiness       `json:"readiness"`
	ForumMap  model.ForumMap        `json:"forumMap"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// GenerateDocuments drafts the matter's documents with its domain module and
// assembles them into a package. The forum map is recomputed on every call.
func (p *Pipeline) GenerateDocuments(ctx context.Context, s *Session, req GenerateRequest) (*GenerateResult, error) {
	if s.Classification == nil {
		return nil, ErrNoClassification
	}
	c := *s.Classification

	forumMap, err := p.router.Route(routeInput(c, s.IsAppeal, s.IsJudicialReview))
	if err != nil {
		return nil, fmt.Errorf("route %s matter: %w", c.Domain, err)
	}

	forms := req.FormMappings
	if forms == nil && p.config.Packaging.FormMappings != "" {
		forms, err = pack.LoadFormMappings(p.config.Packaging.FormMappings)
		if err != nil {
			return nil, fmt.Errorf("load form mappings: %w", err)
		}
	}

	role := req.Role
	if role == "" {
		role = s.Role
	}

	var warnings []string
	if c.UPL != nil && c.UPL.Tier == upl.TierReferral {
		warnings = append(warnings, fmt.Sprintf("%s: %s", c.UPL.Label, strings.Join(c.UPL.Reasons, "; ")))
	}

	s.indexer.MarkCompiled(p.now())
	v := p.view(s)

	start := p.now()
	res, err := p.modules.Resolve(c.Domain).Generate(ctx, domain.GenerateInput{
		Classification: c,
		ForumMap:       forumMap,
		Index:          v.index,
		Timeline:       v.timeline,
		Gaps:           v.gaps,
		Alerts:         v.alerts,
		Notes:          req.Notes,
		Role:           role,
		ConfirmAll:     req.ConfirmAll,
		FormMappings:   forms,
		PackageName:    req.PackageName,
		Warnings:       warnings,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s documents: %w", c.Domain, err)
	}
	p.metrics.RecordPackage(string(c.Domain), res.Readiness.Index, p.now().Sub(start))

	s.Classification.Status = model.StatusDrafted

	drafts := make([]string, 0, len(res.Drafts))
	for _, d := range res.Drafts {
		drafts = append(drafts, d.TemplateID)
	}
	_, err = s.audit.Record(ctx, model.AuditDocumentsGenerated, req.Actor, fmt.Sprintf("%d documents drafted", len(res.Drafts)), map[string]any{
		"package":   res.Package.Name,
		"templates": drafts,
		"readiness": res.Readiness.Index,
		"warnings":  len(res.Package.Warnings),
	})
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Drafts:    res.Drafts,
		Package:   res.Package,
		Readiness: res.Readiness,
		ForumMap:  forumMap,
		Warnings:  res.Package.Warnings,
	}, nil
}

// WritePackage writes every package file under dir/<slugged package name>
// and returns the package root.
func WritePackage(pkg model.DocumentPackage, dir string) (string, error) {
	root := filepath.Join(dir, pack.Slug(pkg.Name))
	for _, folder := range pkg.Folders {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(folder)), 0o750); err != nil {
			return "", fmt.Errorf("create %s: %w", folder, err)
		}
	}
	for _, f := range pkg.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Path))
		if !strings.HasPrefix(path, filepath.Clean(root)+string(filepath.Separator)) {
			return "", fmt.Errorf("package path %q escapes %s", f.Path, root)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return "", fmt.Errorf("create %s: %w", filepath.Dir(f.Path), err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o600); err != nil {
			return "", fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return root, nil
}
