package director

// Signal is a single-slot completion notification carrying the finished
// shot's identifier. Notify never blocks; when the slot is still occupied
// the notification is dropped.
type Signal struct {
	ch chan string
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan string, 1)}
}

// Notify posts a completion without blocking.
func (s *Signal) Notify(shotID string) {
	select {
	case s.ch <- shotID:
	default:
	}
}

// C returns the receive side. The frame loop drains it with a non-blocking
// select once per tick.
func (s *Signal) C() <-chan string {
	return s.ch
}
