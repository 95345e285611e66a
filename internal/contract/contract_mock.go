package contract

import (
	"context"
	"time"

	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing.
type MockCommandRunner struct {
	mock.Mock
}

var _ CommandRunner = &MockCommandRunner{} // Compile-time check

// Run implements the CommandRunner interface.
func (m *MockCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	ret := m.Called(ctx, dir, name, args)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// MockDataStore is a mock implementation of DataStore for testing.
type MockDataStore struct {
	mock.Mock
}

var _ DataStore = &MockDataStore{} // Compile-time check

// InsertAnalysis implements the AnalysisStore interface.
func (m *MockDataStore) InsertAnalysis(ctx context.Context, a *schema.Analysis) error {
	return m.Called(ctx, a).Error(0)
}

// InsertIssues implements the AnalysisStore interface.
func (m *MockDataStore) InsertIssues(ctx context.Context, owner, analysisID string, issues []schema.Issue) error {
	return m.Called(ctx, owner, analysisID, issues).Error(0)
}

// DeleteAnalysis implements the AnalysisStore interface.
func (m *MockDataStore) DeleteAnalysis(ctx context.Context, owner, analysisID string) error {
	return m.Called(ctx, owner, analysisID).Error(0)
}

// GetAnalysis implements the AnalysisStore interface.
func (m *MockDataStore) GetAnalysis(ctx context.Context, owner, analysisID string) (*schema.Analysis, error) {
	args := m.Called(ctx, owner, analysisID)
	a, _ := args.Get(0).(*schema.Analysis)
	return a, args.Error(1)
}

// ListAnalyses implements the AnalysisStore interface.
func (m *MockDataStore) ListAnalyses(ctx context.Context, owner, projectID string, limit int) ([]schema.AnalysisSummary, error) {
	args := m.Called(ctx, owner, projectID, limit)
	out, _ := args.Get(0).([]schema.AnalysisSummary)
	return out, args.Error(1)
}

// CountAnalyses implements the AnalysisStore interface.
func (m *MockDataStore) CountAnalyses(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

// CountAnalysesSince implements the AnalysisStore interface.
func (m *MockDataStore) CountAnalysesSince(ctx context.Context, owner string, since time.Time) (int, error) {
	args := m.Called(ctx, owner, since)
	return args.Int(0), args.Error(1)
}

// ListVersions implements the VersionStore interface.
func (m *MockDataStore) ListVersions(ctx context.Context, projectID string) ([]schema.Version, error) {
	args := m.Called(ctx, projectID)
	out, _ := args.Get(0).([]schema.Version)
	return out, args.Error(1)
}

// CreateVersion implements the VersionStore interface.
func (m *MockDataStore) CreateVersion(ctx context.Context, v schema.Version) error {
	return m.Called(ctx, v).Error(0)
}

// DeleteVersion implements the VersionStore interface.
func (m *MockDataStore) DeleteVersion(ctx context.Context, projectID, versionID string) error {
	return m.Called(ctx, projectID, versionID).Error(0)
}

// GetProject implements the ProjectStore interface.
func (m *MockDataStore) GetProject(ctx context.Context, owner, projectID string) (*schema.Project, error) {
	args := m.Called(ctx, owner, projectID)
	p, _ := args.Get(0).(*schema.Project)
	return p, args.Error(1)
}

// GetOrCreateProject implements the ProjectStore interface.
func (m *MockDataStore) GetOrCreateProject(ctx context.Context, owner, name string, language schema.Language) (*schema.Project, error) {
	args := m.Called(ctx, owner, name, language)
	p, _ := args.Get(0).(*schema.Project)
	return p, args.Error(1)
}

// GetWeights implements the SettingsStore interface.
func (m *MockDataStore) GetWeights(ctx context.Context, owner string) (schema.WeightVector, bool, error) {
	args := m.Called(ctx, owner)
	w, _ := args.Get(0).(schema.WeightVector)
	return w, args.Bool(1), args.Error(2)
}

// SaveWeights implements the SettingsStore interface.
func (m *MockDataStore) SaveWeights(ctx context.Context, owner string, weights schema.WeightVector) error {
	return m.Called(ctx, owner, weights).Error(0)
}

// ListIssueRecords implements the DataStore interface.
func (m *MockDataStore) ListIssueRecords(ctx context.Context, owner, analysisID string) ([]schema.IssueRecord, error) {
	args := m.Called(ctx, owner, analysisID)
	out, _ := args.Get(0).([]schema.IssueRecord)
	return out, args.Error(1)
}

// DedupeIssues implements the DataStore interface.
func (m *MockDataStore) DedupeIssues(ctx context.Context, analysisID string) (int64, error) {
	args := m.Called(ctx, analysisID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// GetStatus implements the DataStore interface.
func (m *MockDataStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	s, _ := args.Get(0).(schema.StoreStatus)
	return s, args.Error(1)
}

// Close implements the DataStore interface.
func (m *MockDataStore) Close() error {
	return m.Called().Error(0)
}
