package bundle

import (
	"fmt"
	"os"

	"feedview/pkg/logger"
	"feedview/pkg/models"
)

// LoadFile decodes a feed bundle from a JSON file on disk.
func LoadFile(path string) ([]models.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer f.Close()
	msgs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Info("feed_file_loaded", "path", path, "records", len(msgs))
	return msgs, nil
}
