// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/radar/internal/models"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	Artists       []models.Artist
	Releases      map[string][]models.RawRelease
	ArtistsErr    error
	ReleaseErrs   map[string]error
	ReleaseCalls  []string
	ArtistsCalled int
}

func (m *MockCatalog) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	m.ArtistsCalled++
	if m.ArtistsErr != nil {
		return nil, m.ArtistsErr
	}
	return m.Artists, nil
}

func (m *MockCatalog) ArtistReleases(ctx context.Context, artistID string) ([]models.RawRelease, error) {
	m.ReleaseCalls = append(m.ReleaseCalls, artistID)
	if err, ok := m.ReleaseErrs[artistID]; ok {
		return nil, err
	}
	return m.Releases[artistID], nil
}

func (m *MockCatalog) Name() string { return "mock" }

// MockTokenProvider is a test double for [services.TokenProvider]
type MockTokenProvider struct {
	AccessToken  string
	TokenErr     error
	RefreshErr   error
	RefreshCalls int
}

func (m *MockTokenProvider) Token(ctx context.Context) (string, error) {
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	return m.AccessToken, nil
}

func (m *MockTokenProvider) Refresh(ctx context.Context) (string, error) {
	m.RefreshCalls++
	if m.RefreshErr != nil {
		return "", m.RefreshErr
	}
	return m.AccessToken, nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
