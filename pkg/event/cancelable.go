package event

// Cancelable can be embedded in an event to let handlers flag it as canceled.
// The dispatcher never looks at the flag; cooperating listeners decide
// whether to honour it.
type Cancelable struct {
	canceled bool
}

// Cancel marks the event as canceled.
func (c *Cancelable) Cancel() { c.canceled = true }

// Canceled reports whether Cancel was called.
func (c *Cancelable) Canceled() bool { return c.canceled }
