package notify

import "log/slog"

// LogPresenter writes descriptors to a structured log. The CLI uses it in
// place of a UI toast layer.
type LogPresenter struct {
	Logger *slog.Logger
}

// Present logs one descriptor at a level matching its severity.
func (p LogPresenter) Present(d Descriptor) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if d.Severity == SeverityDestructive {
		logger.Warn("notification", "title", d.Title, "body", d.Body, "severity", d.Severity)
		return
	}
	logger.Info("notification", "title", d.Title, "body", d.Body, "severity", d.Severity)
}
