package bus

import "context"

type noopBus struct{}

// NewNoopBus keeps the service bootable when no Redis is configured.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, SentenceEvent) error              { return nil }
func (noopBus) StartForwarder(context.Context, func(SentenceEvent)) error { return nil }
func (noopBus) Close() error                                              { return nil }
