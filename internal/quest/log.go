package quest

// MessageLog keeps the most recent messages, oldest first.
type MessageLog struct {
	lines []string
	max   int
}

// NewMessageLog creates a log holding up to limit lines.
func NewMessageLog(limit int) *MessageLog {
	if limit <= 0 {
		limit = 1
	}
	return &MessageLog{max: limit}
}

// Add appends a message, dropping the oldest when full.
func (l *MessageLog) Add(msg string) {
	if msg == "" {
		return
	}
	l.lines = append(l.lines, msg)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

// Lines returns a copy of the messages.
func (l *MessageLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of messages held.
func (l *MessageLog) Len() int {
	return len(l.lines)
}
