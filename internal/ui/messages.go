package ui

import (
	"sync"
	"time"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
)

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Error     bool
	Timestamp time.Time
}

// MessageLogger tracks the last N status messages
type MessageLogger struct {
	messages []Message
	maxSize  int
	now      func() time.Time
	mu       sync.Mutex
}

// NewMessageLogger creates a new message logger with the specified max size
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{
		messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

func (ml *MessageLogger) add(text string, isError bool) {
	if text == "" {
		return
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.messages = append(ml.messages, Message{Text: text, Error: isError, Timestamp: ml.now()})
	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// AddMessage records an informational message
func (ml *MessageLogger) AddMessage(text string) {
	ml.add(text, false)
}

// AddError records an error message
func (ml *MessageLogger) AddError(text string) {
	ml.add(text, true)
}

// Current returns the newest message if it is younger than ttl
func (ml *MessageLogger) Current(ttl time.Duration) (Message, bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if len(ml.messages) == 0 {
		return Message{}, false
	}
	last := ml.messages[len(ml.messages)-1]
	if ml.now().Sub(last.Timestamp) > ttl {
		return Message{}, false
	}
	return last, true
}

// GetMessagesReverse returns a copy of all messages, newest first
func (ml *MessageLogger) GetMessagesReverse() []Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	result := make([]Message, len(ml.messages))
	for i, msg := range ml.messages {
		result[len(ml.messages)-1-i] = msg
	}
	return result
}

// Count returns the number of messages in the logger
func (ml *MessageLogger) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.messages)
}

// Lines renders the messages, newest first, for the report overlay
func (ml *MessageLogger) Lines() []diff.DiffLine {
	var lines []diff.DiffLine
	for _, m := range ml.GetMessagesReverse() {
		t := diff.DiffTypeContext
		if m.Error {
			t = diff.DiffTypeRemoved
		}
		lines = append(lines, diff.DiffLine{Type: t, Content: m.Timestamp.Format("15:04:05") + "  " + m.Text})
	}
	if len(lines) == 0 {
		lines = append(lines, diff.DiffLine{Type: diff.DiffTypeContext, Content: "No messages"})
	}
	return lines
}
