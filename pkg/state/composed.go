package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sys/unix"
)

// lengthHeaderSize is the size of the big-endian length prefix preceding the
// msgpack payload in the shared memory block (spec.md §6 "Persisted state
// layout").
const lengthHeaderSize = 8

// ErrComposedOverflow is returned when the serialized payload would exceed
// the block's fixed capacity; the write fails rather than truncating
// (spec.md §3 invariant).
var ErrComposedOverflow = errors.New("composed state: payload exceeds max_bytes")

// Composed is the cross-process KV store: a fixed-size shared-memory block
// (an mmap'd file), a length-prefixed msgpack payload, and an OS file lock
// standing in for the external cross-process mutex spec.md §9 calls for —
// "do not replace with a server; a named mutex + memory-mapped file is the
// canonical [cross-process] primitive".
type Composed struct {
	maxBytes int

	mu     sync.Mutex // serializes this process's own callers
	lock   *flock.Flock
	file   *os.File
	region []byte
	held   bool // true between GetForUpdate and its matching Set/CancelUpdate
}

// Open maps (creating if necessary) a fixed-size shared memory block at
// path, sized maxBytes plus the length header. A sibling "<path>.lock" file
// is used as the cross-process mutex.
func Open(path string, maxBytes int) (*Composed, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("composed state: open %s: %w", path, err)
	}

	total := int64(lengthHeaderSize + maxBytes)
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("composed state: stat %s: %w", path, err)
	}
	if info.Size() < total {
		if err := f.Truncate(total); err != nil {
			f.Close()
			return nil, fmt.Errorf("composed state: truncate %s: %w", path, err)
		}
	}

	region, err := unix.Mmap(int(f.Fd()), 0, int(total), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("composed state: mmap %s: %w", path, err)
	}

	return &Composed{
		maxBytes: maxBytes,
		lock:     flock.New(path + ".lock"),
		file:     f,
		region:   region,
	}, nil
}

// Close unmaps the shared region and closes the backing file.
func (c *Composed) Close() error {
	if err := unix.Munmap(c.region); err != nil {
		return fmt.Errorf("composed state: munmap: %w", err)
	}
	return c.file.Close()
}

// Get reads a single key, taking and releasing the cross-process lock for
// just the read.
func (c *Composed) Get(key string) (any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("composed state: acquire read lock: %w", err)
	}
	defer c.lock.Unlock()

	data, err := c.decode()
	if err != nil {
		return nil, false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// GetForUpdate reads the full map and holds the cross-process lock until
// the caller calls Set or CancelUpdate, making the read-modify-write atomic
// across processes (spec.md §3: "permit read-modify-write without losing
// updates").
func (c *Composed) GetForUpdate() (map[string]any, error) {
	c.mu.Lock()
	if err := c.lock.Lock(); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("composed state: acquire lock: %w", err)
	}
	c.held = true

	data, err := c.decode()
	if err != nil {
		c.releaseHeld()
		return nil, err
	}
	return data, nil
}

// Set writes data back. If called after GetForUpdate it releases that
// held lock; called standalone, it acquires and releases the lock for a
// single atomic write.
func (c *Composed) Set(data map[string]any) error {
	if !c.held {
		c.mu.Lock()
		if err := c.lock.Lock(); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("composed state: acquire lock: %w", err)
		}
		c.held = true
	}

	payload, err := msgpack.Marshal(data)
	if err != nil {
		c.releaseHeld()
		return fmt.Errorf("composed state: marshal: %w", err)
	}
	if len(payload) > c.maxBytes {
		c.releaseHeld()
		return ErrComposedOverflow
	}

	binary.BigEndian.PutUint64(c.region[:lengthHeaderSize], uint64(len(payload)))
	copy(c.region[lengthHeaderSize:], payload)

	c.releaseHeld()
	return nil
}

// CancelUpdate releases the lock acquired by GetForUpdate without writing.
func (c *Composed) CancelUpdate() {
	if !c.held {
		return
	}
	c.releaseHeld()
}

func (c *Composed) releaseHeld() {
	c.held = false
	_ = c.lock.Unlock()
	c.mu.Unlock()
}

// decode must be called with both c.mu and the cross-process lock held.
func (c *Composed) decode() (map[string]any, error) {
	n := binary.BigEndian.Uint64(c.region[:lengthHeaderSize])
	if n == 0 {
		return map[string]any{}, nil
	}
	if int(n) > c.maxBytes {
		return nil, fmt.Errorf("composed state: corrupt length header (%d > capacity %d)", n, c.maxBytes)
	}

	payload := c.region[lengthHeaderSize : lengthHeaderSize+int(n)]
	var data map[string]any
	if err := msgpack.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("composed state: unmarshal: %w", err)
	}
	return data, nil
}
