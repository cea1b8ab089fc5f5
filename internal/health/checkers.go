// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StoreState is the part of the record store the readiness probe inspects.
type StoreState interface {
	Loaded() bool
	Len() int
}

// StoreChecker reports whether the record store finished loading.
type StoreChecker struct {
	store StoreState
}

// NewStoreChecker creates a checker for the record store.
func NewStoreChecker(store StoreState) *StoreChecker {
	return &StoreChecker{store: store}
}

func (c *StoreChecker) Name() string { return "record_store" }

func (c *StoreChecker) Check(_ context.Context) CheckResult {
	if !c.store.Loaded() {
		return CheckResult{Status: StatusUnhealthy, Message: "record store not loaded"}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d records", c.store.Len())}
}

// DirWritableChecker verifies that new files can be created in a directory.
type DirWritableChecker struct {
	name string
	dir  string
}

// NewDirWritableChecker creates a checker for dir.
func NewDirWritableChecker(name, dir string) *DirWritableChecker {
	return &DirWritableChecker{name: name, dir: dir}
}

func (c *DirWritableChecker) Name() string { return c.name }

func (c *DirWritableChecker) Check(_ context.Context) CheckResult {
	if err := checkWritable(c.dir); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: c.dir}
	}
	return CheckResult{Status: StatusHealthy, Message: "writable"}
}

func checkWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	f, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	return nil
}
