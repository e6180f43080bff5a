package theme

// DocumentState is an in-memory Document. The server uses it to run the
// controller headlessly per request, seeding it from the visitor's cookie
// and reading the resolved attribute back out for rendering.
type DocumentState struct {
	attrs map[string]string
}

// NewDocumentState creates a DocumentState with the given initial theme
// attribute. An empty value leaves the attribute unset.
func NewDocumentState(current string) *DocumentState {
	d := &DocumentState{attrs: make(map[string]string)}
	if current != "" {
		d.attrs[Attr] = current
	}
	return d
}

// Attribute returns the named attribute, or "" when unset.
func (d *DocumentState) Attribute(name string) string {
	return d.attrs[name]
}

// SetAttribute sets the named attribute.
func (d *DocumentState) SetAttribute(name, value string) {
	d.attrs[name] = value
}
