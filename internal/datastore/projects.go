package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/qualityscore/schema"
)

// GetProject implements the ProjectStore interface.
func (s *Store) GetProject(ctx context.Context, owner, projectID string) (*schema.Project, error) {
	if s.disabled() {
		return nil, schema.ErrProjectNotFound
	}
	query := s.q(fmt.Sprintf(`SELECT id, owner, name, language, created_at FROM %s WHERE id = ? AND owner = ?`,
		s.table(projectsTable)))
	return s.scanProject(s.db.QueryRowContext(ctx, query, projectID, owner))
}

// GetOrCreateProject implements the ProjectStore interface.
// A concurrent insert of the same name is resolved by reading the winner back.
func (s *Store) GetOrCreateProject(ctx context.Context, owner, name string, language schema.Language) (*schema.Project, error) {
	if s.disabled() {
		return &schema.Project{ID: uuid.NewString(), Owner: owner, Name: name, Language: language, CreatedAt: time.Now().UTC()}, nil
	}

	project, err := s.findProject(ctx, owner, name)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, schema.ErrProjectNotFound) {
		return nil, err
	}

	project = &schema.Project{ID: uuid.NewString(), Owner: owner, Name: name, Language: language, CreatedAt: time.Now().UTC()}
	insert := s.q(fmt.Sprintf(`INSERT INTO %s (id, owner, name, language, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.table(projectsTable)))
	if _, insertErr := s.db.ExecContext(ctx, insert, project.ID, owner, name, string(language), s.ts(project.CreatedAt)); insertErr != nil {
		if existing, findErr := s.findProject(ctx, owner, name); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to insert project %s: %w", name, insertErr)
	}
	return project, nil
}

func (s *Store) findProject(ctx context.Context, owner, name string) (*schema.Project, error) {
	query := s.q(fmt.Sprintf(`SELECT id, owner, name, language, created_at FROM %s WHERE owner = ? AND name = ?`,
		s.table(projectsTable)))
	return s.scanProject(s.db.QueryRowContext(ctx, query, owner, name))
}

func (s *Store) scanProject(row *sql.Row) (*schema.Project, error) {
	var p schema.Project
	var lang string
	var created dbTime
	if err := row.Scan(&p.ID, &p.Owner, &p.Name, &lang, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schema.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	p.Language = schema.Language(lang)
	p.CreatedAt = created.Time
	return &p, nil
}

// ListVersions implements the VersionStore interface. Versions come back in index order.
func (s *Store) ListVersions(ctx context.Context, projectID string) ([]schema.Version, error) {
	if s.disabled() {
		return nil, nil
	}
	query := s.q(fmt.Sprintf(`SELECT id, project_id, version_index, label, weights, content_hash, created_at
		FROM %s WHERE project_id = ? ORDER BY version_index`, s.table(versionsTable)))
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Version
	for rows.Next() {
		var v schema.Version
		var weights string
		var created dbTime
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.Index, &v.Label, &weights, &v.ContentHash, &created); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if err := json.Unmarshal([]byte(weights), &v.Weights); err != nil {
			return nil, fmt.Errorf("failed to decode weights of version %s: %w", v.ID, err)
		}
		v.CreatedAt = created.Time
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}
	return out, nil
}

// CreateVersion implements the VersionStore interface.
func (s *Store) CreateVersion(ctx context.Context, v schema.Version) error {
	if s.disabled() {
		return nil
	}
	weights, err := json.Marshal(v.Weights)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	query := s.q(fmt.Sprintf(`INSERT INTO %s (id, project_id, version_index, label, weights, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, s.table(versionsTable)))
	if _, err := s.db.ExecContext(ctx, query, v.ID, v.ProjectID, v.Index, v.Label, string(weights), v.ContentHash, s.ts(v.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}
	return nil
}

// DeleteVersion implements the VersionStore interface.
func (s *Store) DeleteVersion(ctx context.Context, projectID, versionID string) error {
	if s.disabled() {
		return nil
	}
	query := s.q(fmt.Sprintf(`DELETE FROM %s WHERE project_id = ? AND id = ?`, s.table(versionsTable)))
	if _, err := s.db.ExecContext(ctx, query, projectID, versionID); err != nil {
		return fmt.Errorf("failed to delete version %s: %w", versionID, err)
	}
	return nil
}

// GetWeights implements the SettingsStore interface.
func (s *Store) GetWeights(ctx context.Context, owner string) (schema.WeightVector, bool, error) {
	if s.disabled() {
		return schema.WeightVector{}, false, nil
	}
	query := s.q(fmt.Sprintf(`SELECT weights FROM %s WHERE owner = ?`, s.table(settingsTable)))
	var raw string
	if err := s.db.QueryRowContext(ctx, query, owner).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.WeightVector{}, false, nil
		}
		return schema.WeightVector{}, false, fmt.Errorf("failed to read weights: %w", err)
	}
	var w schema.WeightVector
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return schema.WeightVector{}, false, fmt.Errorf("failed to decode weights for %s: %w", owner, err)
	}
	return w, true, nil
}

// SaveWeights implements the SettingsStore interface.
func (s *Store) SaveWeights(ctx context.Context, owner string, weights schema.WeightVector) error {
	if s.disabled() {
		return nil
	}
	raw, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.upsertWeightsQuery(), owner, string(raw), s.ts(time.Now())); err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}
	return nil
}

func (s *Store) upsertWeightsQuery() string {
	table := s.table(settingsTable)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (owner, weights, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE weights = new.weights, updated_at = new.updated_at`, table)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (owner, weights, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (owner) DO UPDATE SET weights = EXCLUDED.weights, updated_at = EXCLUDED.updated_at`, table)
	default: // SQLite
		return fmt.Sprintf(`INSERT INTO %s (owner, weights, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (owner) DO UPDATE SET weights = excluded.weights, updated_at = excluded.updated_at`, table)
	}
}
