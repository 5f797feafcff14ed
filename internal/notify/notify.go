// Package notify is the outbound notification sink for executed swaps.
// Validation failures stay in-form and never reach the sink.
package notify

import "go.uber.org/zap"

// Notifier receives success notifications from the swap executor.
type Notifier interface {
	Success(title, description string)
}

// ZapNotifier writes notifications to the structured log.
type ZapNotifier struct {
	logger *zap.Logger
}

// NewZapNotifier creates a log-backed notifier.
func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapNotifier{logger: logger}
}

func (n *ZapNotifier) Success(title, description string) {
	n.logger.Info(title, zap.String("description", description))
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Success(string, string) {}
