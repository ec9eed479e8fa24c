/*
cache.go - Read-through directory cache

PURPOSE:
  Report building resolves the same project/client/user ids over and over.
  DirectoryCache keeps those lookups in memory, reading through to the
  underlying directories on miss.

INVALIDATION:
  Mutations to projects, clients or users must call Invalidate. The cache is
  never patched with a write response - write-response shapes differ from
  read shapes in places, so the next read always reloads from the source.
*/
package timesheet

import (
	"context"
	"sync"
)

// DirectoryCache is a read-through cache over the three directories.
type DirectoryCache struct {
	source Directories

	mu       sync.RWMutex
	projects map[string]*ProjectInfo
	clients  map[string]*ClientInfo
	users    map[string]*UserInfo
}

// NewDirectoryCache wraps the given directories.
func NewDirectoryCache(source Directories) *DirectoryCache {
	c := &DirectoryCache{source: source}
	c.reset()
	return c
}

func (c *DirectoryCache) reset() {
	c.projects = make(map[string]*ProjectInfo)
	c.clients = make(map[string]*ClientInfo)
	c.users = make(map[string]*UserInfo)
}

// Invalidate drops every cached entry. Call after any directory mutation.
func (c *DirectoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Project resolves a project id, caching the result (including misses).
func (c *DirectoryCache) Project(ctx context.Context, id string) (*ProjectInfo, error) {
	c.mu.RLock()
	p, ok := c.projects[id]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := c.source.Project(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.projects[id] = p
	c.mu.Unlock()
	return p, nil
}

// Projects always reads through; listings are not cached.
func (c *DirectoryCache) Projects(ctx context.Context) ([]ProjectInfo, error) {
	return c.source.Projects(ctx)
}

func (c *DirectoryCache) Client(ctx context.Context, id string) (*ClientInfo, error) {
	c.mu.RLock()
	cl, ok := c.clients[id]
	c.mu.RUnlock()
	if ok {
		return cl, nil
	}

	cl, err := c.source.Client(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.clients[id] = cl
	c.mu.Unlock()
	return cl, nil
}

func (c *DirectoryCache) Clients(ctx context.Context) ([]ClientInfo, error) {
	return c.source.Clients(ctx)
}

func (c *DirectoryCache) User(ctx context.Context, id string) (*UserInfo, error) {
	c.mu.RLock()
	u, ok := c.users[id]
	c.mu.RUnlock()
	if ok {
		return u, nil
	}

	u, err := c.source.User(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.users[id] = u
	c.mu.Unlock()
	return u, nil
}

func (c *DirectoryCache) Users(ctx context.Context) ([]UserInfo, error) {
	return c.source.Users(ctx)
}
