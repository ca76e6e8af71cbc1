package core

// Timer represents a scheduled event. WakeTime is in milliseconds on the
// TimerRead32 clock.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var timerList *Timer

// before reports whether a is earlier than b on the wrapping clock.
func before(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleTimer adds a timer to the schedule
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	insertTimer(t)
}

// CancelTimer removes t if it is scheduled.
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts a timer in sorted order by WakeTime
func insertTimer(t *Timer) {
	if timerList == nil || before(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !before(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// popDue unlinks the head timer if it is due at now.
func popDue(now uint32) *Timer {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == nil || before(now, timerList.WakeTime) {
		return nil
	}
	t := timerList
	timerList = t.Next
	t.Next = nil
	return t
}

// TimerDispatch runs every timer with WakeTime <= now. Handlers run with
// interrupts enabled and may schedule other timers.
func TimerDispatch(now uint32) {
	for {
		t := popDue(now)
		if t == nil {
			return
		}
		if t.Handler(t) == SF_RESCHEDULE {
			ScheduleTimer(t)
		}
	}
}
