package commands

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/utils"
)

const (
	// unreadableFileFormat is stored as the contents of files that cannot be
	// read as text.
	unreadableFileFormat = "Could not read file %s: %v"

	unreadableFileMessage = "could not read file"
)

var errBinaryContent = errors.New("binary content")

// fileJob pairs a file node waiting for contents with its location on disk.
type fileJob struct {
	absolutePath string
	relativePath string
	assign       func(text string)
}

// inspectFile returns the text of a file, or the unreadable file placeholder
// when it cannot be read or holds binary data.
func inspectFile(job fileJob, logger *zap.Logger) string {
	data, readError := os.ReadFile(job.absolutePath)
	if readError == nil && utils.IsBinary(data) {
		readError = errBinaryContent
	}
	if readError != nil {
		logger.Error(unreadableFileMessage, zap.String("path", job.relativePath), zap.Error(readError))
		return fmt.Sprintf(unreadableFileFormat, job.relativePath, readError)
	}
	logger.Debug("found file", zap.String("path", job.relativePath), zap.String("size", utils.FormatFileSize(int64(len(data)))))
	return string(data)
}
