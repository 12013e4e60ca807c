package stream

// Limiter caps concurrent live feed connections.
type Limiter struct {
	slots chan struct{}
}

func NewLimiter(maxConnections int) *Limiter {
	return &Limiter{
		slots: make(chan struct{}, maxConnections),
	}
}

func (l *Limiter) Acquire() bool {
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
	}
}

func (l *Limiter) Active() int {
	return len(l.slots)
}
