// Package model defines the declarative settings descriptors consumed by the
// registry, the value store adapter, and the renderers. A Field carries its
// rendering hints (type, subtype, adornments, numeric bounds) alongside its
// storage binding (data source, store key, optional post id) so a single
// value can both render the control and locate the persisted value.
package model
