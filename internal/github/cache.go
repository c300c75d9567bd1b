package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// CachedClient wraps a RepoLister with an LRU cache whose entries expire
// after ttl. Errors are never cached.
type CachedClient struct {
	client RepoLister
	repos  *lru.Cache
	ttl    time.Duration
	now    func() time.Time
}

var _ RepoLister = (*CachedClient)(nil)

// NewCachedClient creates a cache holding at most size usernames.
func NewCachedClient(client RepoLister, size int, ttl time.Duration) (*CachedClient, error) {
	if size <= 0 {
		return nil, errors.New("github: cache size must be greater than 0")
	}
	repos, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("github: creating lru cache for repos: %w", err)
	}

	return &CachedClient{
		client: client,
		repos:  repos,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// ListUserRepos serves a fresh cache entry or calls through.
//
// /users/{username}/repos only lists public repositories, so entries are
// keyed by username alone and shared between callers.
func (c *CachedClient) ListUserRepos(ctx context.Context, username, token string) ([]model.GitHubRepo, error) {
	if val, ok := c.repos.Get(username); ok {
		entry := val.(reposCacheEntry)
		if entry.created.Add(c.ttl).After(c.now()) {
			return entry.data, nil
		}
	}

	repos, err := c.client.ListUserRepos(ctx, username, token)
	if err != nil {
		return nil, err
	}

	c.repos.Add(username, reposCacheEntry{
		created: c.now(),
		data:    repos,
	})

	return repos, nil
}

type reposCacheEntry struct {
	created time.Time
	data    []model.GitHubRepo
}
