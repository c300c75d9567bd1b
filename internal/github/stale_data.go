package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// KVStore provides simple kv data storage.
type KVStore interface {
	ReadKey(key []byte) ([]byte, error)
	UpdateKey(key []byte, data []byte) error
}

// StaleDataClient records every successful listing in a KVStore and, when
// the wrapped client fails, serves the last snapshot if it is younger than
// ttl. Older snapshots are ignored and the original error is returned.
type StaleDataClient struct {
	client RepoLister
	store  KVStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

var _ RepoLister = (*StaleDataClient)(nil)

// NewStaleDataClient creates a StaleDataClient.
func NewStaleDataClient(client RepoLister, store KVStore, ttl time.Duration, logger *slog.Logger) *StaleDataClient {
	return &StaleDataClient{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// ListUserRepos calls the wrapped client, falling back to a snapshot.
func (c *StaleDataClient) ListUserRepos(ctx context.Context, username, token string) ([]model.GitHubRepo, error) {
	repos, err := c.client.ListUserRepos(ctx, username, token)
	if err == nil {
		if saveErr := c.save(username, repos); saveErr != nil {
			c.logger.Warn("saving github snapshot",
				slog.String("username", username),
				slog.String("error", saveErr.Error()),
			)
		}
		return repos, nil
	}

	entry, readErr := c.load(username)
	if readErr != nil {
		c.logger.Warn("reading github snapshot",
			slog.String("username", username),
			slog.String("error", readErr.Error()),
		)
		return nil, err
	}
	if entry == nil || time.Unix(entry.Created, 0).Add(c.ttl).Before(c.now()) {
		return nil, err
	}

	c.logger.Info("serving stale github repos",
		slog.String("username", username),
		slog.Time("snapshot", time.Unix(entry.Created, 0)),
		slog.String("error", err.Error()),
	)
	return entry.Data, nil
}

func (c *StaleDataClient) save(username string, repos []model.GitHubRepo) error {
	data, err := json.Marshal(reposDBEntry{
		Created: c.now().Unix(),
		Data:    repos,
	})
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}
	return c.store.UpdateKey(reposDBKey(username), data)
}

func (c *StaleDataClient) load(username string) (*reposDBEntry, error) {
	data, err := c.store.ReadKey(reposDBKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var entry reposDBEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %w", err)
	}
	return &entry, nil
}

func reposDBKey(username string) []byte {
	return []byte("repos/" + username)
}

type reposDBEntry struct {
	Created int64
	Data    []model.GitHubRepo
}
