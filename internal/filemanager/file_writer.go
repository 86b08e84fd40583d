package filemanager

import (
	"os"
	"path/filepath"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriteOptions holds options for file writing operations
type FileWriteOptions struct {
	Permissions os.FileMode
	CreateDirs  bool
}

// DefaultFileWriteOptions returns sensible defaults for file writing
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		Permissions: 0644,
		CreateDirs:  true,
	}
}

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to a file with the given options. Existing files are
// overwritten silently.
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errorwrapper.WrapError(err, "failed to create directory for "+path)
			}
		}
	}

	if err := fw.performFileWrite(path, data, opts); err != nil {
		return errorwrapper.WrapError(err, "failed to write file: "+path)
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// performFileWrite performs the actual file writing operation
func (fw *FileWriter) performFileWrite(path string, data []byte, opts FileWriteOptions) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, opts.Permissions)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fw.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file after writing")
		}
	}()

	_, err = file.Write(data)
	return err
}
