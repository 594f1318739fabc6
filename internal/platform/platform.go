//go:build linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package platform gates local-cache filesystem optimizations behind the
// running kernel's version, the way the teacher's pkg/linux gates tcp_info
// field availability the same way. Retargeted from "which tcp_info fields
// exist" to "which file-preallocation syscalls behave the way
// pkg/texture/cachestore assumes".
package platform

import (
	"fmt"

	"github.com/docker/docker/pkg/parsers/kernel"
)

var linuxKernelVersion *kernel.VersionInfo

// Capability flags read by pkg/texture/cachestore/local.go before it tries
// a filesystem shortcut, falling back to a portable path when false.
var (
	// SupportsRenameNoReplace gates RENAME_NOREPLACE, used by
	// cachestore.LocalStore.Put to land a freshly-written cache file
	// atomically without a stat-then-rename race against a concurrent
	// writer for the same asset id.
	SupportsRenameNoReplace = false
	// SupportsFallocatePunchHole and SupportsCopyFileRange are detected for
	// parity with the rest of this table but aren't wired to a call site:
	// no component here rewrites a cache entry in place (Put always writes
	// a fresh temp file, see SupportsRenameNoReplace) or copies bytes
	// between two already-open file descriptors in the local store's path.
	SupportsFallocatePunchHole = false
	SupportsCopyFileRange      = false
)

type versionedCapability struct {
	version kernel.VersionInfo
	flag    *bool
}

// Unlike the teacher's tcp_info struct-size table, these capabilities
// aren't a single cumulative measurement that only grows with kernel
// version, so each is checked against its own introduction version rather
// than walked newest-first.
var capabilities = []versionedCapability{
	{version: kernel.VersionInfo{Kernel: 3, Major: 15, Minor: 0}, flag: &SupportsFallocatePunchHole},
	{version: kernel.VersionInfo{Kernel: 3, Major: 15, Minor: 0}, flag: &SupportsRenameNoReplace},
	{version: kernel.VersionInfo{Kernel: 4, Major: 5, Minor: 0}, flag: &SupportsCopyFileRange},
}

func init() {
	var err error
	if linuxKernelVersion, err = kernel.GetKernelVersion(); err != nil {
		panic(fmt.Errorf("platform: error getting kernel version: %s", err))
	}
	adaptToKernelVersion()
}

func adaptToKernelVersion() {
	for _, c := range capabilities {
		*c.flag = kernel.CompareKernelVersion(*linuxKernelVersion, c.version) >= 0
	}
}
