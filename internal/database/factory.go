package database

import (
	"fmt"
	"slices"

	"github.com/Rana718/liteport/internal/database/sqlfile"
	"github.com/Rana718/liteport/internal/database/sqlite"
)

var supportedProviders = []string{"sqlite", "sqlite3", "sql"}

func NewStore(provider string) (Store, error) {
	switch provider {
	case "sqlite", "sqlite3", "":
		return sqlite.New(), nil
	case "sql":
		return sqlfile.New(), nil
	default:
		return nil, fmt.Errorf("unsupported target provider: %s. Supported providers: %v", provider, supportedProviders)
	}
}

// SupportedProviders lists the names NewStore accepts.
func SupportedProviders() []string {
	return slices.Clone(supportedProviders)
}

// IsSupported reports whether provider names a target store.
func IsSupported(provider string) bool {
	for _, p := range supportedProviders {
		if p == provider {
			return true
		}
	}
	return false
}
