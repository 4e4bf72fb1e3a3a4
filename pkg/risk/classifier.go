package risk

import "time"

// Classifier assigns a severity to raw monitoring events and provides
// filtered views over a session's event stream. The event type set is open:
// unknown types classify to the default severity.
type Classifier struct {
	defaultSeverity Severity
}

// NewClassifier creates a classifier with SeverityLow as the default for
// unknown event types.
func NewClassifier() *Classifier {
	return &Classifier{defaultSeverity: SeverityLow}
}

// Classify returns the severity for a raw event. Blur events escalate with
// recorded duration; copy-paste and devtools are always high.
func (c *Classifier) Classify(eventType string, data map[string]interface{}) Severity {
	switch eventType {
	case EventTypeCopyPaste, EventTypeDevToolsOpen:
		return SeverityHigh
	case EventTypeTabSwitch, EventTypeFullscreenExit:
		return SeverityMedium
	case EventTypeWindowBlur:
		return classifyBlur(data)
	case EventTypeWindowFocus, EventTypeRightClick, EventTypeIdle:
		return SeverityLow
	default:
		return c.defaultSeverity
	}
}

func classifyBlur(data map[string]interface{}) Severity {
	duration := eventDuration(Event{Data: data})
	switch {
	case duration > 60:
		return SeverityHigh
	case duration > 15:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// FilterType returns the events of the given type, preserving order.
func FilterType(events []Event, eventType string) []Event {
	var out []Event
	for _, event := range events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// CountType returns the number of events of the given type.
func CountType(events []Event, eventType string) int {
	count := 0
	for _, event := range events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

// CountSeverity returns the number of events with the given severity.
func CountSeverity(events []Event, severity Severity) int {
	count := 0
	for _, event := range events {
		if event.Severity == severity {
			count++
		}
	}
	return count
}

// FilterWindow returns the events whose timestamps fall inside [start, end),
// preserving order. Events are expected to arrive timestamp-ordered within a
// session; the filter does not re-sort.
func FilterWindow(events []Event, start, end time.Time) []Event {
	var out []Event
	for _, event := range events {
		if !event.Timestamp.Before(start) && event.Timestamp.Before(end) {
			out = append(out, event)
		}
	}
	return out
}
