// Package levels serves the level catalog used to backfill operation titles.
package levels

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"

	"copilot-ops/internal/operation"
)

// CustomCategory marks a stage the catalog does not know about.
const CustomCategory = "自定义关卡"

const catalogKey = "catalog"

type Store interface {
	ListLevels(ctx context.Context) ([]operation.Level, error)
	UpsertLevels(ctx context.Context, levels []operation.Level) error
}

// Provider reads the catalog from a Store and keeps it in a small TTL cache.
type Provider struct {
	log   *slog.Logger
	store Store
	cache *expirable.LRU[string, []operation.Level]
}

func NewProvider(log *slog.Logger, store Store, size int, ttl time.Duration) *Provider {
	if size < 1 {
		size = 1
	}
	return &Provider{
		log:   log,
		store: store,
		cache: expirable.NewLRU[string, []operation.Level](size, nil, ttl),
	}
}

// Levels returns the whole catalog sorted by level id. The caller owns the
// returned slice.
func (p *Provider) Levels(ctx context.Context) ([]operation.Level, error) {
	const op = "levels.Provider.Levels"

	if cached, ok := p.cache.Get(catalogKey); ok {
		return slices.Clone(cached), nil
	}

	levels, err := p.store.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slices.SortFunc(levels, func(a, b operation.Level) int {
		return strings.Compare(a.LevelID, b.LevelID)
	})

	p.cache.Add(catalogKey, levels)
	p.log.Debug("level catalog loaded", slog.String("op", op), slog.Int("count", len(levels)))

	return slices.Clone(levels), nil
}

// FindOrCustom looks a stage up in the cached catalog, falling back to the
// custom placeholder level.
func (p *Provider) FindOrCustom(ctx context.Context, stageName string) (operation.Level, error) {
	levels, err := p.Levels(ctx)
	if err != nil {
		return operation.Level{}, err
	}
	return FindOrCustom(levels, stageName), nil
}

// Seed stores levels and drops the cached catalog.
func (p *Provider) Seed(ctx context.Context, levels []operation.Level) error {
	const op = "levels.Provider.Seed"

	if err := p.store.UpsertLevels(ctx, levels); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.Invalidate()

	p.log.Info("level catalog seeded", slog.String("op", op), slog.Int("count", len(levels)))
	return nil
}

func (p *Provider) Invalidate() {
	p.cache.Purge()
}

// FindOrCustom returns the catalog entry for stageName, or a placeholder level
// in the custom category when the catalog has none. The placeholder is for
// display only; ToQualified still rejects the stage.
func FindOrCustom(levels []operation.Level, stageName string) operation.Level {
	if level, ok := operation.FindLevel(levels, stageName); ok {
		return level
	}
	return operation.Level{
		LevelID:  stageName,
		Name:     stageName,
		CatThree: CustomCategory,
	}
}

// Search filters levels whose name or categories contain keyword, ignoring
// case. An empty keyword matches everything.
func Search(levels []operation.Level, keyword string) []operation.Level {
	caser := cases.Fold()
	keyword = caser.String(strings.TrimSpace(keyword))
	if keyword == "" {
		return levels
	}

	var found []operation.Level
	for _, l := range levels {
		for _, field := range []string{l.LevelID, l.Name, l.CatOne, l.CatTwo, l.CatThree} {
			if strings.Contains(caser.String(field), keyword) {
				found = append(found, l)
				break
			}
		}
	}
	return found
}
