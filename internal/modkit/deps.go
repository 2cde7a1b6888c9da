// Package modkit carries the shared dependencies handed to pipeline modules
package modkit

import (
	"claimscout/internal/platform/config"
	"claimscout/internal/platform/logger"
)

// Deps holds the core dependencies a module needs at construction time.
// Wiring only; modules define their own ports on top
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}
