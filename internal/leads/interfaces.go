package leads

import (
	"context"
)

// RepositoryInterface defines the interface for lead storage
type RepositoryInterface interface {
	CreateLead(ctx context.Context, lead *Lead) error
}

// Publisher sends an event on a subject; *nats.Conn satisfies it
type Publisher interface {
	Publish(subject string, data []byte) error
}
