package interfaces

import "context"

// Notifier receives finished analysis reports
type Notifier interface {
	PostReport(ctx context.Context, title, text string) error
}
