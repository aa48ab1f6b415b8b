package bundle

import (
	"bytes"
	_ "embed"

	"feedview/pkg/models"
)

//go:embed default_feed.json
var defaultFeed []byte

// Default decodes the feed bundle compiled into the binary. It is the
// fallback source when no snapshot or feed file is configured.
func Default() ([]models.Message, error) {
	return Decode(bytes.NewReader(defaultFeed))
}
