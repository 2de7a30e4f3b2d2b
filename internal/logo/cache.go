package logo

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source fetches the raw logo response for an instrument.
type Source interface {
	GetLogo(ctx context.Context, isin, assetClass string) (body []byte, contentType string, err error)
}

// Cache stores instrument logos as SVG files, one per ISIN.
type Cache struct {
	dir    string
	source Source
	logger *slog.Logger

	// Guards against refetching ISINs that yielded no usable logo.
	mu      sync.Mutex
	skipped map[string]bool
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string, source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		dir:     dir,
		source:  source,
		logger:  logger,
		skipped: make(map[string]bool),
	}
}

// Ensure fetches and stores the logo for an ISIN unless a cached file
// already exists. Returns the file path, or "" when the upstream had no
// usable logo. Network failures are returned; unsupported content is not.
func (c *Cache) Ensure(ctx context.Context, isin, assetClass string) (string, error) {
	path := filepath.Join(c.dir, isin+".svg")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	c.mu.Lock()
	skip := c.skipped[isin]
	c.mu.Unlock()
	if skip {
		return "", nil
	}

	body, contentType, err := c.source.GetLogo(ctx, isin, assetClass)
	if err != nil {
		return "", err
	}

	svg, ok := extractSVG(body, contentType)
	if !ok {
		c.logger.Debug("no usable logo form", "isin", isin, "content_type", contentType)
		c.mu.Lock()
		c.skipped[isin] = true
		c.mu.Unlock()
		return "", nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return "", err
	}

	c.logger.Debug("logo cached", "isin", isin, "file", path)
	return path, nil
}

// extractSVG pulls SVG markup out of the two supported response forms.
func extractSVG(body []byte, contentType string) ([]byte, bool) {
	trimmed := bytes.TrimSpace(body)

	// Raw SVG document.
	if bytes.HasPrefix(trimmed, []byte("<svg")) {
		return trimmed, true
	}

	// JSON with an embedded SVG string.
	isJSON := strings.Contains(strings.ToLower(contentType), "application/json") ||
		bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))
	if !isJSON {
		return nil, false
	}

	var obj struct {
		SVG string `json:"svg"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	if !strings.Contains(obj.SVG, "<svg") {
		return nil, false
	}
	return []byte(obj.SVG), true
}
