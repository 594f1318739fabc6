//go:build !linux

package cachestore

import "os"

// renameNoReplace falls back to a plain (replacing) rename on platforms
// without RENAME_NOREPLACE; platform.SupportsRenameNoReplace is always
// false there, so Put never takes the no-replace path that would call
// this with conflicting content.
func renameNoReplace(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
