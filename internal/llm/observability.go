package llm

import "github.com/sirupsen/logrus"

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events as structured log entries.
type LogObserver struct {
	logger logrus.FieldLogger
}

func NewLogObserver(logger logrus.FieldLogger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	entry := o.logger.WithFields(logrus.Fields{
		"task":       event.Task,
		"model":      event.Model,
		"latency_ms": event.LatencyMs,
		"attempts":   event.Attempts,
	})
	if !event.Success {
		entry.WithField("error_code", event.ErrorCode).Warn("llm_call")
		return
	}
	entry.Info("llm_call")
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
