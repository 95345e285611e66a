package versioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
)

// Request is one upload to be checked against a project's versions.
type Request struct {
	ProjectID   string
	ProjectName string
	ContentHash string
	Weights     schema.WeightVector
	Label       string // optional
}

// Decision is the outcome of a dedup check. Rejections are not errors.
type Decision struct {
	Code          schema.DecisionCode `json:"code"`
	Reason        string              `json:"reason"`
	Version       *schema.Version     `json:"version,omitempty"`        // created version when accepted
	ExistingLabel string              `json:"existing_label,omitempty"` // conflicting version when rejected
}

// Accepted reports whether a new version was created.
func (d Decision) Accepted() bool { return d.Code == schema.Accepted }

// Resolver gates version creation on label and content uniqueness.
type Resolver struct {
	store contract.VersionStore
	now   func() time.Time
	newID func() string
}

// NewResolver creates a resolver backed by store.
func NewResolver(store contract.VersionStore) *Resolver {
	return &Resolver{store: store, now: time.Now, newID: uuid.NewString}
}

// Resolve rejects a duplicate label, then a duplicate content hash with equal
// weights, and otherwise creates the next version of the project.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Decision, error) {
	versions, err := r.store.ListVersions(ctx, req.ProjectID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to list versions for project %s: %w", req.ProjectID, err)
	}

	label := strings.TrimSpace(req.Label)
	next := NextIndex(versions)

	if label != "" {
		for _, v := range versions {
			if v.Label == label {
				return Decision{
					Code:          schema.DuplicateVersion,
					Reason:        fmt.Sprintf("version label %q already exists in this project", label),
					ExistingLabel: v.Label,
				}, nil
			}
		}
	}

	for _, v := range versions {
		if v.ContentHash == req.ContentHash && v.Weights.Equal(req.Weights) {
			return Decision{
				Code:          schema.DuplicateSourceAndWeights,
				Reason:        fmt.Sprintf("same source and weights were already analyzed as version %q", v.Label),
				ExistingLabel: v.Label,
			}, nil
		}
	}

	if label == "" {
		label = req.ProjectName
	}
	version := schema.Version{
		ID:          r.newID(),
		ProjectID:   req.ProjectID,
		Index:       next,
		Label:       label,
		Weights:     req.Weights,
		ContentHash: req.ContentHash,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.store.CreateVersion(ctx, version); err != nil {
		return Decision{}, fmt.Errorf("failed to create version %d: %w", next, err)
	}
	return Decision{
		Code:    schema.Accepted,
		Reason:  fmt.Sprintf("created version %d", next),
		Version: &version,
	}, nil
}

// NextIndex is one more than the highest existing version index.
func NextIndex(versions []schema.Version) int {
	maxIndex := 0
	for _, v := range versions {
		maxIndex = max(maxIndex, v.Index)
	}
	return maxIndex + 1
}
