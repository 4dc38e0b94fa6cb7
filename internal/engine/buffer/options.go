package buffer

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithLineEnding sets the document's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
	}
}

// WithTabWidth sets the document's tab width.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithCRLF configures the document to use Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}

	return LineEndingLF
}

// WithDetectedLineEnding sets the document's line ending style based on content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
