package storage

import (
	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

// NewDocumentStore creates the store backend named in the configuration.
func NewDocumentStore(config *common.Config, logger *common.Logger) (interfaces.DocumentStore, error) {
	switch config.Store.Backend {
	case "github":
		return NewGitHubStore(&config.Store.GitHub, logger)
	case "file":
		return NewFileStore(config.Store.File.Path, logger)
	default:
		return nil, models.NotConfiguredf("unknown store backend '%s'", config.Store.Backend)
	}
}
