//go:build !windows
// +build !windows

// Package atomicfile writes files through an atomic rename so a crash
// mid-write never leaves a truncated config behind.
package atomicfile

import (
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile writes data to filename atomically. The file is created with
// permissions perm when absent and replaced in a single rename otherwise.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
