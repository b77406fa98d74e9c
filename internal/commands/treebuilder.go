package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/projsnap/internal/config"
	"github.com/temirov/projsnap/internal/types"
)

// SnapshotBuilder walks a directory tree and accumulates structure lines and content blocks
// according to its settings and ignore patterns.
type SnapshotBuilder struct {
	Settings       types.Settings
	IgnorePatterns config.IgnorePatternSet
	Logger         *zap.Logger

	reservedFileNames map[string]struct{}
}

// NewSnapshotBuilder creates a builder. A nil logger is replaced with a no-op logger.
func NewSnapshotBuilder(settings types.Settings, ignorePatterns config.IgnorePatternSet, logger *zap.Logger) *SnapshotBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotBuilder{
		Settings:          settings,
		IgnorePatterns:    ignorePatterns,
		Logger:            logger,
		reservedFileNames: settings.ReservedFileNames(),
	}
}

func (builder *SnapshotBuilder) isReservedFileName(name string) bool {
	_, reserved := builder.reservedFileNames[name]
	return reserved
}
