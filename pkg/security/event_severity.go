package security

import "go.uber.org/zap/zapcore"

// Severity is derived from EventType, never from request input.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

var EventSeverityMap = map[EventType]Severity{
	EventContactSent: SeverityINFO,

	EventValidationFailed:   SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,

	// Mail provider rejected us, or Redis is gone and limits are local only
	EventRateLimitDegraded: SeverityHIGH,
	EventDispatchFailed:    SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM when unmapped.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove reports whether the event should page someone.
func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
