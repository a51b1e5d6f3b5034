package contract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/blameshare/schema"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// ResolveRevision implements the GitClient interface.
func (m *MockGitClient) ResolveRevision(ctx context.Context, repoPath string, rev string) (string, error) {
	ret := m.Called(ctx, repoPath, rev)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// ListFilesAtRef implements the GitClient interface.
func (m *MockGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// Blame implements the GitClient interface.
func (m *MockGitClient) Blame(ctx context.Context, repoPath string, rev string, path string) ([]schema.BlameHunk, error) {
	ret := m.Called(ctx, repoPath, rev, path)
	hunks, _ := ret.Get(0).([]schema.BlameHunk)
	return hunks, ret.Error(1)
}
