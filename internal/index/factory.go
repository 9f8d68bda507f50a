package index

import (
	"fmt"

	"github.com/codealchemy/organizer/internal/config"
	"github.com/codealchemy/organizer/internal/events"
)

// NewStore builds the duplicate index backend selected by config.
func NewStore(cfg *config.IndexConfig, logger *events.Logger) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "json":
		return NewJSONStore(cfg.Path, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.Backend)
	}
}
