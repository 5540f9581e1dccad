package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// ResolvePreferredModel picks the model to request from the locally
// available list. Pure function: exact match wins, then a base-name match
// ignoring the ":tag" suffix, then the first available model. When nothing
// is available the configured name is returned unchanged and the server
// decides.
func ResolvePreferredModel(configured string, available []string) string {
	if len(available) == 0 {
		return configured
	}

	for _, name := range available {
		if name == configured {
			return configured
		}
	}

	base := baseModelName(configured)
	for _, name := range available {
		if baseModelName(name) == base {
			return name
		}
	}

	return available[0]
}

func baseModelName(name string) string {
	if idx := strings.Index(name, ":"); idx != -1 {
		return name[:idx]
	}
	return name
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type modelCacheEntry struct {
	models    []string
	fetchedAt time.Time
}

// modelResolver lists the local server's models via /api/tags with a small
// per-host LRU cache. Entries expire after modelCacheTTL or by capacity
// eviction; there is no other invalidation.
type modelResolver struct {
	client *http.Client
	cache  *lru.Cache
	logger *zap.Logger
}

const (
	modelCacheSize = 8
	modelCacheTTL  = 5 * time.Minute
)

func newModelResolver(logger *zap.Logger) *modelResolver {
	cache, _ := lru.New(modelCacheSize)
	return &modelResolver{
		client: &http.Client{Timeout: 5 * time.Second},
		cache:  cache,
		logger: logger,
	}
}

// Models returns the model names available on a host.
func (r *modelResolver) Models(ctx context.Context, host string) ([]string, error) {
	if v, ok := r.cache.Get(host); ok {
		entry := v.(modelCacheEntry)
		if time.Since(entry.fetchedAt) < modelCacheTTL {
			return entry.models, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(host, "/")+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create tags request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tags response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags endpoint status %s", resp.Status)
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(bodyBytes, &tags); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}

	r.cache.Add(host, modelCacheEntry{models: models, fetchedAt: time.Now()})
	return models, nil
}
