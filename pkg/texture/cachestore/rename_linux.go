//go:build linux

package cachestore

import "golang.org/x/sys/unix"

// renameNoReplace lands newPath atomically, failing rather than clobbering
// an existing file, when platform.SupportsRenameNoReplace is true. Two
// concurrent Put calls for the same asset id race harmlessly either way
// (the content is the same texture), but this avoids a window where a
// reader could open a half-written destination file.
func renameNoReplace(oldPath, newPath string) error {
	return unix.Renameat2(unix.AT_FDCWD, oldPath, unix.AT_FDCWD, newPath, unix.RENAME_NOREPLACE)
}
