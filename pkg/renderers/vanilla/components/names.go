package components

// Markup constants shared by the built-in components.
const (
	// InputSize is the size attribute every text-like input carries.
	InputSize = "40"
	// TextareaCols and TextareaRows fix the textarea grid.
	TextareaCols = "100"
	TextareaRows = "20"
	// CheckboxValue is what a checked checkbox submits, regardless of the
	// stored value.
	CheckboxValue = "1"
	// DisabledSuffix renames the visible control of a disabled field so it
	// never collides with the shadow hidden control.
	DisabledSuffix = "_disabled"
)
