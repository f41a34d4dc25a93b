package commands

import (
	"context"
	"time"

	"github.com/muratoffalex/tgchecker/internal/telegram"
)

type Command interface {
	Name() string
	Aliases() []string
	// Handle schedules the command, Execute runs it.
	Handle(ctx context.Context, update telegram.Update) error
	Execute(ctx context.Context, update telegram.Update) error
	GetQueueConfig() QueueConfig
	Access() Access
	PrivateOnly() bool
	// Sensitive commands carry secrets in their arguments. They are never
	// persisted in the task queue and their arguments are never logged.
	Sensitive() bool
}

type Access int

const (
	AccessUser Access = iota
	AccessAdmin
)

type ThrottleConfig struct {
	Period      time.Duration
	Requests    int
	Concurrency int
}

type QueueConfig struct {
	Enabled    bool
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	Throttle   ThrottleConfig
}
