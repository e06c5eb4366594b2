package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
)

// DistLock guards work that only one replica should run at a time, such as
// pulling the spreadsheet. A single instance must not be shared between
// goroutines.
type DistLock interface {
	// Acquire tries to take the lock without blocking.
	Acquire(ctx context.Context) (bool, error)
	// Release drops the lock if this instance still owns it.
	Release(ctx context.Context) error
}

// Extender is a lock that expires on its own and must be renewed while held.
type Extender interface {
	DistLock
	TTL() time.Duration
	Extend(ctx context.Context, ttl time.Duration) error
}

// NewLock picks a backend: Redis when a client is configured, otherwise a
// Postgres advisory lock, otherwise an in-process lock for single-replica
// deployments.
func NewLock(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) DistLock {
	switch {
	case redisClient != nil:
		return NewRedisLock(redisClient, key, ttl)
	case db != nil:
		return NewPGAdvisoryLock(db, key)
	default:
		return NewLocalLock(key)
	}
}

// PGAdvisoryLock uses session-scoped pg_try_advisory_lock. The lock pins one
// pooled connection from Acquire until Release; a dropped connection releases it.
type PGAdvisoryLock struct {
	db     *sql.DB
	conn   *sql.Conn
	lockID int64
}

// NewPGAdvisoryLock derives a stable lock ID from key.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	if l.conn != nil {
		return false, nil
	}
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, err
	}
	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired); err != nil {
		conn.Close()
		return false, err
	}
	if !acquired {
		conn.Close()
		return false, nil
	}
	l.conn = conn
	return true, nil
}

func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Close()
		l.conn = nil
	}()
	_, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}

var localLocks sync.Map // key -> *sync.Mutex

// LocalLock is a process-wide try-lock keyed by name.
type LocalLock struct {
	mu   *sync.Mutex
	held bool
}

// NewLocalLock returns a lock sharing its mutex with every LocalLock of the same key.
func NewLocalLock(key string) *LocalLock {
	mu, _ := localLocks.LoadOrStore(key, &sync.Mutex{})
	return &LocalLock{mu: mu.(*sync.Mutex)}
}

func (l *LocalLock) Acquire(context.Context) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = l.mu.TryLock()
	return l.held, nil
}

func (l *LocalLock) Release(context.Context) error {
	if l.held {
		l.held = false
		l.mu.Unlock()
	}
	return nil
}

// WithLock runs fn while holding lock. It reports false without calling fn
// when another holder has the lock. Expiring locks are renewed until fn returns.
func WithLock(ctx context.Context, lock DistLock, fn func(ctx context.Context) error) (bool, error) {
	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		return false, err
	}
	defer lock.Release(context.WithoutCancel(ctx))
	if ext, ok := lock.(Extender); ok {
		stop := keepAlive(ctx, ext)
		defer stop()
	}
	return true, fn(ctx)
}

// keepAlive extends the lock every third of its TTL. The returned func stops
// renewal and waits for the renewing goroutine to exit.
func keepAlive(ctx context.Context, lock Extender) func() {
	ttl := lock.TTL()
	if ttl <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := lock.Extend(ctx, ttl); err != nil {
					if ctx.Err() == nil {
						logger.Warn("lock renewal failed", "error", err)
					}
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
