// Package rst provides the reStructuredText command handlers: decoration
// toggles, list editing, grid tables, headings and relative paths.
//
// Key actions (rst.key.*) return a passthrough result when no rst
// behavior applies at the cursor. Passthroughs lists the plain edit
// action each of them falls back to:
//
//	h := rst.New()
//	d.RegisterNamespace("rst", h)
//	for action, fallback := range rst.Passthroughs() {
//		d.SetPassthrough(action, fallback)
//	}
//
// List commands work on the primary selection and finish with a renumber
// pass that joins the same undo step.
package rst
