// Package lludp is the root of an LLUDP client library: wire primitives
// (pkg/wire), the packet/message codec (pkg/frame), the object-state
// decoder (pkg/object), a concurrent request registry (pkg/registry), and
// the texture download pipeline (pkg/texture) that ties them together.
//
// Services is the aggregate most callers construct first; the
// subpackages are usable standalone for anyone decoding captured traffic
// offline (see cmd/object-dump) without running a pipeline at all.
package lludp
