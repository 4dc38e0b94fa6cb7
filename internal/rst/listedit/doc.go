// Package listedit implements list editing for reStructuredText documents:
// renumbering of ordered lists, Enter continuation of quote, bullet and
// enumerated items, Tab indentation, Backspace on empty items, task-list
// checkboxes and line moves that keep numbering intact.
//
// Commands return an Action: the edits to apply, the selections afterwards
// and how to renumber once the edits are in. Renumbering runs against the
// edited document and is merged into the same undo step:
//
//	act := listedit.OnEnter(doc, sel, listedit.NoModifier, settings)
//	apply(act.Edits)
//	apply(listedit.FollowUp(doc, sel, act, settings)) // merged
//
// All scans are bounded loops over line indices.
package listedit
