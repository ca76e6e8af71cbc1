package rawhid

import (
	"bytes"

	"kbhooks/core"
	"kbhooks/keymaps/vvh413"
)

// answers reports whether resp is the keyboard's reply to req rather than
// a late reply to an earlier request. The keyboard echoes the request in
// place, so the command and the bytes that address the value must match.
// An unhandled command comes back with ViaUnhandled in place of the
// command byte.
func answers(req, resp []byte) bool {
	if len(req) == 0 || len(resp) == 0 {
		return false
	}
	if resp[0] != req[0] && resp[0] != core.ViaUnhandled {
		return false
	}
	n := echoed(req)
	if len(resp) < n {
		return false
	}
	return bytes.Equal(req[1:n], resp[1:n])
}

// echoed returns how many leading bytes of req the keyboard leaves in
// place, counting the command byte.
func echoed(req []byte) int {
	n := 1
	switch req[0] {
	case core.ViaGetKeyboardValue:
		n = 2
	case core.ViaCustomSetValue, core.ViaCustomGetValue, core.ViaCustomSave:
		n = 3
		if len(req) > 2 && req[2] == vvh413.IDBuffer {
			// offset hi, offset lo
			n = 5
		}
	}
	return min(n, len(req))
}
