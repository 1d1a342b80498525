package templateengine

import "context"

// EmailTransport delivers a processed template, the header is the subject.
type EmailTransport interface {
	Send(ctx context.Context, email string, result *ProcessingResult) error
}
