package core

var keyboardLeft = true

// SetKeyboardLeft records which half of a split board this firmware runs
// on. Targets set it once at boot from their handedness source.
func SetKeyboardLeft(left bool) {
	keyboardLeft = left
}

// IsKeyboardLeft reports whether this is the left (or only) half.
func IsKeyboardLeft() bool {
	return keyboardLeft
}
