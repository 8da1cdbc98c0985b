// pkg/secrets/memory.go
package secrets

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

type memProvider struct {
	log    *zap.SugaredLogger
	bySlug map[string]string
}

// NewMemoryProvider wraps a fixed slug→secret map. Used in tests and as the
// dev fallback when no external store is configured.
func NewMemoryProvider(seed map[string]string) Provider {
	m := make(map[string]string, len(seed))
	for k, v := range seed {
		m[k] = v
	}
	return &memProvider{bySlug: m}
}

// NewMemoryProviderFromEnv seeds from TENANT_SEED_JSON, a JSON object of
// slug→secret pairs, e.g. {"amanda-boris":"ab083125"}.
func NewMemoryProviderFromEnv(log *zap.SugaredLogger) Provider {
	p := &memProvider{log: log, bySlug: map[string]string{}}
	if seed := os.Getenv("TENANT_SEED_JSON"); seed != "" {
		if err := json.Unmarshal([]byte(seed), &p.bySlug); err != nil {
			log.Warnw("tenant seed parse", "err", err)
		}
	}
	log.Infow("in-memory secret store ready", "tenants", len(p.bySlug))
	return p
}

func (m *memProvider) LookupSecret(ctx context.Context, tenant string) (string, error) {
	if s, ok := m.bySlug[tenant]; ok {
		return s, nil
	}
	return "", ErrNotFound
}
