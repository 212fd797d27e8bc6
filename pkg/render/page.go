package render

import "github.com/goliatone/go-adminsettings/pkg/notice"

// Page is the view model handed to renderers once every field value has been
// resolved and every control rendered.
type Page struct {
	Key         string
	Title       string
	Action      string
	OptionGroup string
	Notices     []notice.Notice
	Hidden      []HiddenField
	Sections    []Section
}

// Section is a titled group of rows. Description holds sanitized HTML.
type Section struct {
	ID          string
	Title       string
	Description string
	Rows        []Row
}

// Row is one labelled control. Control holds the rendered field markup.
type Row struct {
	ID       string
	Label    string
	Required bool
	Control  string
}

// FieldCount returns the number of rows across all sections.
func (p Page) FieldCount() int {
	total := 0
	for _, section := range p.Sections {
		total += len(section.Rows)
	}
	return total
}
