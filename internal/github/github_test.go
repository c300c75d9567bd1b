package github

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// fakeLister returns repos or err and counts calls.
type fakeLister struct {
	mu    sync.Mutex
	repos []model.GitHubRepo
	err   error
	calls int
}

func (f *fakeLister) ListUserRepos(context.Context, string, string) ([]model.GitHubRepo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

func (f *fakeLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memKV is an in-memory KVStore.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	readErr error
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) ReadKey(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.data[string(key)], nil
}

func (m *memKV) UpdateKey(key []byte, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = data
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errGitHubDown = apperror.Upstream("", errors.New("connection refused"))

func testRepos() []model.GitHubRepo {
	return []model.GitHubRepo{
		{ID: 1, Name: "alpha", FullName: "octocat/alpha", StargazersCount: 5},
		{ID: 2, Name: "beta", FullName: "octocat/beta", StargazersCount: 9},
	}
}
