package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/qualityscore/core/normalize"
	"github.com/huangsam/qualityscore/core/persist"
	"github.com/huangsam/qualityscore/core/scoring"
	"github.com/huangsam/qualityscore/core/versioning"
	"github.com/huangsam/qualityscore/internal/adapters"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// Pipeline rejections. They are wrapped with their decision code.
var (
	ErrLanguageUndetected = errors.New("no supported source language detected")
	ErrSourceMismatch     = errors.New("source language does not match the project")
	ErrQuotaExceeded      = errors.New("analysis quota exceeded")
)

// QuotaWindow is the rolling window of the daily quota.
const QuotaWindow = 24 * time.Hour

// Collector gathers raw reports for a source tree.
type Collector interface {
	Collect(ctx context.Context, dir string, langs []schema.Language) adapters.Collection
}

// DetectFunc lists the languages present under a root.
type DetectFunc func(root string, excludes []string) ([]schema.Language, error)

// Request is one analysis of an uploaded tree.
type Request struct {
	Owner       string
	Dir         string
	ProjectName string // used when ProjectID is empty; defaults to the directory name
	ProjectID   string
	Label       string
	Weights     schema.WeightOverrides // overlaid on the owner's saved weights
	Excludes    []string
	Source      *schema.SourceInfo
	DailyQuota  int // 0 disables
	TotalQuota  int // 0 disables
}

// Result is the outcome of Run. Analysis is nil unless the decision was accepted.
type Result struct {
	Decision versioning.Decision
	Analysis *schema.Analysis
	Failures []*adapters.AdapterError
}

// Analyzer runs the end-to-end pipeline against a DataStore.
type Analyzer struct {
	store     contract.DataStore
	collector Collector
	detect    DetectFunc
	catalog   *normalize.Catalog
	resolver  *versioning.Resolver
	committer *persist.Coordinator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewAnalyzer creates an analyzer using the built-in language detection and rule tables.
func NewAnalyzer(store contract.DataStore, collector Collector, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		store:     store,
		collector: collector,
		detect:    adapters.DetectLanguages,
		catalog:   normalize.DefaultCatalog(),
		resolver:  versioning.NewResolver(store),
		committer: persist.NewCoordinator(store, logger),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run detects languages, resolves the project and weights, checks for a
// duplicate version, runs the adapters, scores and commits the analysis.
// Duplicates are reported in Result.Decision with a nil error.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Owner) == "" {
		return nil, &persist.ValidationError{Field: "owner"}
	}
	if err := a.checkQuota(ctx, req); err != nil {
		return nil, err
	}

	langs, err := a.detect(req.Dir, req.Excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to detect languages: %w", err)
	}
	primary := adapters.PrimaryLanguage(langs)
	if primary == "" {
		return nil, fmt.Errorf("%s: %w", schema.LanguageDetectFail, ErrLanguageUndetected)
	}

	project, err := a.resolveProject(ctx, req, primary)
	if err != nil {
		return nil, err
	}

	overrides, userWeights := a.effectiveWeights(ctx, req.Owner, req.Weights)
	weights := scoring.ResolveWeights(overrides, a.logger)

	hash, err := versioning.HashTree(versioning.SourceRoot(req.Dir))
	if err != nil {
		return nil, err
	}

	decision, err := a.resolver.Resolve(ctx, versioning.Request{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		ContentHash: hash,
		Weights:     weights,
		Label:       req.Label,
	})
	if err != nil {
		return nil, err
	}
	result := &Result{Decision: decision}
	if !decision.Accepted() {
		a.logger.Info("upload rejected", "code", decision.Code, "reason", decision.Reason)
		return result, nil
	}

	collection := a.collector.Collect(ctx, req.Dir, langs)
	result.Failures = collection.Failures

	now := a.now().UTC()
	agg := AggregateReports(AggregateInput{
		Reports:     collection.Reports,
		ProjectName: project.Name,
		Root:        req.Dir,
		Weights:     overrides,
		UserWeights: userWeights,
		Now:         now,
	}, a.catalog, a.logger)
	agg.Scores.Source = req.Source

	version := decision.Version
	analysis := &schema.Analysis{
		ID:                a.newID(),
		Owner:             req.Owner,
		ProjectID:         project.ID,
		ProjectName:       project.Name,
		VersionID:         version.ID,
		VersionLabel:      version.Label,
		VersionIndex:      version.Index,
		DisplayName:       version.DisplayName(project.Name),
		CreatedAt:         now,
		Languages:         langs,
		Tools:             collection.Reports.Tools(),
		Source:            req.Source,
		Scores:            agg.Scores,
		Explanation:       agg.Explanation,
		QualityDetail:     &agg.QualityDetail,
		Issues:            agg.Issues,
		DuplicationBlocks: agg.DuplicationBlocks,
	}

	// The version row already exists at this point, so a failed commit removes it again.
	if err := a.committer.Commit(ctx, req.Owner, analysis, analysis.Issues); err != nil {
		if delErr := a.store.DeleteVersion(ctx, project.ID, version.ID); delErr != nil {
			a.logger.Warn("failed to remove version after commit failure",
				"version_id", version.ID, "error", err, "cleanup_error", delErr)
			return result, errors.Join(err, delErr)
		}
		return result, err
	}
	result.Analysis = analysis
	return result, nil
}

func (a *Analyzer) checkQuota(ctx context.Context, req Request) error {
	if req.DailyQuota > 0 {
		n, err := a.store.CountAnalysesSince(ctx, req.Owner, a.now().Add(-QuotaWindow))
		if err != nil {
			return fmt.Errorf("failed to count recent analyses: %w", err)
		}
		if n >= req.DailyQuota {
			return fmt.Errorf("%d analyses in the last 24h (limit %d): %w", n, req.DailyQuota, ErrQuotaExceeded)
		}
	}
	if req.TotalQuota > 0 {
		n, err := a.store.CountAnalyses(ctx, req.Owner)
		if err != nil {
			return fmt.Errorf("failed to count analyses: %w", err)
		}
		if n >= req.TotalQuota {
			return fmt.Errorf("%d stored analyses (limit %d): %w", n, req.TotalQuota, ErrQuotaExceeded)
		}
	}
	return nil
}

func (a *Analyzer) resolveProject(ctx context.Context, req Request, lang schema.Language) (*schema.Project, error) {
	var project *schema.Project
	var err error
	if req.ProjectID != "" {
		project, err = a.store.GetProject(ctx, req.Owner, req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project %s: %w", req.ProjectID, err)
		}
	} else {
		name := strings.TrimSpace(req.ProjectName)
		if name == "" {
			name = filepath.Base(filepath.Clean(req.Dir))
		}
		project, err = a.store.GetOrCreateProject(ctx, req.Owner, name, lang)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project %s: %w", name, err)
		}
	}

	if project.Language != "" && project.Language != lang {
		return nil, fmt.Errorf("%s: project %q is %s but the source is %s: %w",
			schema.SourceMismatch, project.Name, project.Language, lang, ErrSourceMismatch)
	}
	return project, nil
}

// effectiveWeights overlays the request's overrides on the owner's saved
// weights. The second result is true when either source supplied weights.
func (a *Analyzer) effectiveWeights(ctx context.Context, owner string, overrides schema.WeightOverrides) (schema.WeightOverrides, bool) {
	var base schema.WeightOverrides
	stored, found, err := a.store.GetWeights(ctx, owner)
	if err != nil {
		a.logger.Warn("failed to load saved weights, using defaults", "owner", owner, "error", err)
		found = false
	}
	if found {
		base = stored.Overrides()
	}
	for _, c := range schema.AllCriteria {
		if v := overrides.Get(c); v != nil {
			base.Set(c, *v)
		}
	}
	return base, found || !overrides.IsEmpty()
}
