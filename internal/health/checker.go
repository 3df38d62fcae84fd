package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FSChecker probes the data file and the upload directory on local disk.
type FSChecker struct {
	DataFile  string
	UploadDir string
}

// CheckData verifies the data file (or its directory, before first
// persist) is reachable.
func (c FSChecker) CheckData(ctx context.Context, timeout time.Duration) error {
	return c.probe(ctx, timeout, func() error {
		if _, err := os.Stat(c.DataFile); err == nil {
			return nil
		}
		if _, err := os.Stat(filepath.Dir(c.DataFile)); err != nil {
			return fmt.Errorf("data file unavailable: %w", err)
		}
		return nil
	})
}

// CheckUploads verifies the upload directory exists or can be created.
func (c FSChecker) CheckUploads(ctx context.Context, timeout time.Duration) error {
	return c.probe(ctx, timeout, func() error {
		if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
			return fmt.Errorf("upload dir unavailable: %w", err)
		}
		return nil
	})
}

func (c FSChecker) probe(ctx context.Context, timeout time.Duration, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
