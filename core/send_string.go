package core

// stringPlayer types text as key taps from the scheduler, one character
// per tick, so the scan loop keeps running during long playbacks.
type stringPlayer struct {
	timer    Timer
	text     []byte
	pos      int
	interval uint32
	active   bool
}

var player stringPlayer

// SendStringDelay queues s for typing with interval milliseconds between
// characters. Text stops at the first NUL. The bytes are copied, so the
// caller may overwrite s immediately. A request made while a playback is
// running is appended after it.
func SendStringDelay(s []byte, interval uint8) {
	n := 0
	for n < len(s) && s[n] != 0 {
		n++
	}
	if n == 0 {
		return
	}

	if player.active {
		player.text = append(player.text, s[:n]...)
		return
	}

	player.text = append(player.text[:0], s[:n]...)
	player.pos = 0
	player.interval = uint32(interval)
	player.active = true
	player.timer.Handler = player.step
	player.timer.WakeTime = TimerRead32()
	ScheduleTimer(&player.timer)
}

// IsSendingString reports whether a playback is in progress.
func IsSendingString() bool {
	return player.active
}

// CancelSendString drops any queued text.
func CancelSendString() {
	CancelTimer(&player.timer)
	player.active = false
	player.text = player.text[:0]
	player.pos = 0
}

func (p *stringPlayer) step(t *Timer) uint8 {
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		p.pos++
		kc, shift := asciiToKeycode(c)
		if kc == KC_NO {
			continue
		}
		if shift {
			TapWithMods(kc, KC_LSFT)
		} else {
			TapCode(kc)
		}
		if p.pos < len(p.text) {
			t.WakeTime += p.interval
			return SF_RESCHEDULE
		}
	}
	p.active = false
	p.text = p.text[:0]
	p.pos = 0
	return SF_DONE
}
