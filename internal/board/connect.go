package board

type ConnectState int

const (
	ConnectIdle ConnectState = iota
	Connecting
)

// Connect is the two-step gesture that joins a source note to a target note.
type Connect struct {
	state  ConnectState
	source string
}

func (c *Connect) Source() (string, bool) {
	return c.source, c.state == Connecting
}

// Start enters Connecting from id, replacing any pending source.
func (c *Connect) Start(id string) {
	c.state = Connecting
	c.source = id
}

func (c *Connect) Cancel() bool {
	if c.state != Connecting {
		return false
	}
	*c = Connect{}
	return true
}

// Complete finishes the gesture on target. Picking the source note again
// leaves the gesture pending.
func (c *Connect) Complete(target string) (string, bool) {
	if c.state != Connecting || target == c.source {
		return "", false
	}
	source := c.source
	*c = Connect{}
	return source, true
}
