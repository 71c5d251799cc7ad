package rule

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/openact/openact/pkg/action"
)

// RulesFileName is the rules file looked up inside the configuration
// directory.
const RulesFileName = "open-actions.conf"

// DefaultPath returns the default rules file path inside the user
// configuration directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "openact", RulesFileName)
}

// Load compiles the rules file at path. A missing file is not an error and
// yields an empty RuleSet.
func Load(path string) (RuleSet, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path is user configuration.
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Debug("close rules file", slog.Any("error", cerr))
		}
	}()

	return Parse(f), nil
}

var defaultCache = NewCache(DefaultCacheSize)

// DefaultCache returns the process-wide cache backing [ActionsForURL].
func DefaultCache() *Cache {
	return defaultCache
}

// ActionsForURL matches rawURL against rs. When rs is nil, the default
// rules file is loaded through the process-wide cache and used instead.
// Failures degrade to an empty result, never an error.
func ActionsForURL(rawURL string, rs RuleSet) []action.Invocation {
	if rs == nil {
		loaded, err := defaultCache.Get(DefaultPath())
		if err != nil {
			slog.Warn("load open actions", slog.Any("error", err))

			return nil
		}
		rs = loaded
	}

	return rs.ActionsFor(rawURL)
}
