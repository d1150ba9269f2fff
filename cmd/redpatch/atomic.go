package main

import (
	"os"
	"path/filepath"
)

// writeAtomic runs write against a temporary file in destPath's directory
// and renames it into place only on success, so a failed or interrupted
// write never leaves a partially-written file observable at destPath.
func writeAtomic(destPath string, write func(*os.File) error) error {
	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	cleanup := true
	defer func() {
		if cleanup {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return err
	}
	cleanup = false
	return nil
}
