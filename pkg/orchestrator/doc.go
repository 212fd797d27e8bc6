// Package orchestrator assembles settings pages from a settings.Registry:
// it resolves each field's stored value, renders controls in registration
// order, collects admin notices and hands the page to a renderer. Submit is
// the write side, persisting every storage-bound field of a posted form.
package orchestrator
