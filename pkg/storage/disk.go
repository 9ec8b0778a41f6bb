// Package storage abstracts where uploaded images live. Two drivers ship:
// "local" (filesystem under UPLOAD_DIR, served at /uploads) and "s3"
// (S3-compatible object storage, served from the bucket URL). The driver is
// selected once at boot via STORAGE_DISK.
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/logger"
)

// Disk is the driver interface for image storage.
type Disk interface {
	// Put writes r to path, creating parents as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Open returns a reader for the file. Caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file is present at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL clients use to fetch path.
	URL(path string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the configured disks. The local disk is always available;
// the s3 disk only when S3_BUCKET is set. Call once at startup.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultDisk = config.StorageDisk()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("configured storage disk unavailable, falling back to local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func Default() Disk {
	mu.RLock()
	defer mu.RUnlock()
	return disks[defaultDisk]
}

// Register plugs in a custom Disk, used by tests to substitute a fake.
func Register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
	if defaultDisk == "" {
		defaultDisk = name
	}
}
