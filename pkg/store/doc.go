// Package store adapts the host's two key-value stores (plugin options and
// per-post metadata) behind a single Resolver keyed by a field descriptor.
package store
