// Package template defines the template engine seam the HTML renderers rely
// on, so the page layout can be swapped without touching the field renderer.
package template
