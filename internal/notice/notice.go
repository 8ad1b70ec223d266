// Package notice holds the single transient status message shown to the
// operator. A new notice supersedes the previous one immediately; expiry
// is keyed by a generation counter so a timer belonging to a replaced
// notice can never dismiss its successor.
package notice

import "time"

// Severity tags a notice and determines its auto-dismiss delay.
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// DelayFor returns the auto-dismiss delay for a severity. Unmapped
// severities fall back to the info delay.
func DelayFor(s Severity) time.Duration {
	switch s {
	case Success:
		return 3 * time.Second
	case Error:
		return 6 * time.Second
	case Info:
		return 4 * time.Second
	default:
		return 4 * time.Second
	}
}

// Notice is one transient status message.
type Notice struct {
	Severity  Severity
	Text      string
	CreatedAt time.Time
}

// Center owns the single live notice slot.
type Center struct {
	current *Notice
	gen     int
}

// Show replaces the current notice and returns the new notice together
// with the generation the caller should attach to its expiry timer.
func (c *Center) Show(sev Severity, text string) (Notice, int) {
	c.gen++
	n := Notice{Severity: sev, Text: text, CreatedAt: time.Now()}
	c.current = &n
	return n, c.gen
}

// Expire dismisses the notice for the given generation. It returns true
// exactly once per shown notice; timers for superseded or already
// dismissed notices report false and must be ignored.
func (c *Center) Expire(gen int) bool {
	if c.current == nil || gen != c.gen {
		return false
	}
	c.current = nil
	return true
}

// Dismiss clears the slot unconditionally, invalidating any pending
// expiry timer.
func (c *Center) Dismiss() {
	c.current = nil
	c.gen++
}

// Current returns the live notice, or nil when the slot is empty.
func (c *Center) Current() *Notice {
	return c.current
}
