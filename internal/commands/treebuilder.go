package commands

import (
	"runtime"

	"go.uber.org/zap"
)

// TreeBuilder builds a hierarchy from a directory using configured options.
type TreeBuilder struct {
	IgnorePatterns []string
	// Concurrency bounds the number of files read at once; zero or less
	// means one reader per CPU.
	Concurrency int
	// SkipContents leaves file contents unbound.
	SkipContents bool
	Logger       *zap.Logger
}

func (treeBuilder *TreeBuilder) readerLimit() int {
	if treeBuilder.Concurrency > 0 {
		return treeBuilder.Concurrency
	}
	return runtime.NumCPU()
}

func (treeBuilder *TreeBuilder) logger() *zap.Logger {
	if treeBuilder.Logger == nil {
		return zap.NewNop()
	}
	return treeBuilder.Logger
}
