package board

import "go.uber.org/zap"

// Notifier is the toast-style sink every store operation reports through.
// Both successes and failures of user-triggered operations must reach it.
type Notifier interface {
	Notify(title, description string, isError bool)
}

// ZapNotifier reports notifications through a structured logger. The host
// application can swap in a push/websocket implementation without touching
// the store.
type ZapNotifier struct {
	logger *zap.SugaredLogger
}

func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	return &ZapNotifier{logger: logger.Sugar()}
}

func (n *ZapNotifier) Notify(title, description string, isError bool) {
	if isError {
		n.logger.Errorw(title, "description", description)
		return
	}
	n.logger.Infow(title, "description", description)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, bool) {}
