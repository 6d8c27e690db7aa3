// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
)

// ScriptedNameSource is a test double for [services.NameSource] that
// returns a fixed name list and records calls per department.
type ScriptedNameSource struct {
	Names []string
	Calls map[string]int
}

func NewScriptedNameSource(names ...string) *ScriptedNameSource {
	return &ScriptedNameSource{Names: names, Calls: map[string]int{}}
}

func (s *ScriptedNameSource) TaskNames(_ context.Context, department, _ string, _ int) ([]string, error) {
	s.Calls[department]++
	return s.Names, nil
}

func (s *ScriptedNameSource) Name() string { return "scripted" }

// FailingNameSource is a test double that always signals unavailability.
type FailingNameSource struct {
	Calls map[string]int
}

func NewFailingNameSource() *FailingNameSource {
	return &FailingNameSource{Calls: map[string]int{}}
}

func (s *FailingNameSource) TaskNames(_ context.Context, department, _ string, _ int) ([]string, error) {
	s.Calls[department]++
	return nil, errors.New("provider down")
}

func (s *FailingNameSource) Name() string { return "failing" }

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

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
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
