// Package render defines the renderer contract, the page view model renderers
// consume, and helpers for the hidden fields a settings form posts.
package render
