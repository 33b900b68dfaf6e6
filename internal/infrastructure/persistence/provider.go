package persistence

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Connector opens a new database handle
type Connector func(ctx context.Context) (*Database, error)

// Provider owns the process-wide database handle. The connection is opened
// lazily on the first Get; concurrent first callers share one in-flight
// attempt. A failed attempt is not cached, so the next Get tries again.
type Provider struct {
	connect Connector
	group   singleflight.Group

	mu sync.RWMutex
	db *Database
}

// NewProvider creates a provider that opens connections with connect
func NewProvider(connect Connector) *Provider {
	return &Provider{connect: connect}
}

// Get returns the shared handle, connecting if necessary
func (p *Provider) Get(ctx context.Context) (*Database, error) {
	if db := p.current(); db != nil {
		return db, nil
	}

	v, err, _ := p.group.Do("db", func() (any, error) {
		if db := p.current(); db != nil {
			return db, nil
		}
		// The attempt is shared, so one caller's cancellation must not fail the others
		db, err := p.connect(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.db = db
		p.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Database), nil
}

// Close closes the handle if one was opened. A later Get reconnects.
func (p *Provider) Close() error {
	p.mu.Lock()
	db := p.db
	p.db = nil
	p.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

func (p *Provider) current() *Database {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db
}
