package valueobjects

// Visibility is the comments state of a single post.
// Both the toggle label and the section's hide class are derived from it.
type Visibility int

const (
	// Hidden is the initial state of every rendered post.
	Hidden Visibility = iota
	// Shown means the comments section is visible.
	Shown
)

// Toggle labels.
const (
	LabelShowComments = "Show Comments"
	LabelHideComments = "Hide Comments"
)

// HideClass is the class carried by a hidden comments section.
const HideClass = "hide"

// Toggle returns the opposite state.
func (v Visibility) Toggle() Visibility {
	if v == Shown {
		return Hidden
	}
	return Shown
}

// Label returns the text the toggle control shows in this state.
func (v Visibility) Label() string {
	if v == Shown {
		return LabelHideComments
	}
	return LabelShowComments
}

// String returns a lower-case name for logs and JSON.
func (v Visibility) String() string {
	if v == Shown {
		return "shown"
	}
	return "hidden"
}

// MarshalText implements encoding.TextMarshaler
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// VisibilityFromLabel maps a toggle label back to a state. Any label other
// than "Hide Comments" counts as hidden.
func VisibilityFromLabel(label string) Visibility {
	if label == LabelHideComments {
		return Shown
	}
	return Hidden
}
