// Package decoration toggles inline reStructuredText markup: strong
// emphasis (**), emphasis (*) and inline literals (``).
//
// A line is first tagged: every rune becomes an Elem, and runes belonging
// to a recognized marker pair are tagged with the side they sit on. Removal
// then walks outward from the selection and drops the nearest enclosing
// markers. When nothing is removed the selection is wrapped instead.
//
// The functions are pure and never fail: text that does not look like
// markup is simply treated as plain.
package decoration
