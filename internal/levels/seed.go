package levels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"copilot-ops/internal/operation"
)

type seedFile struct {
	Levels []operation.Level `yaml:"levels"`
}

// ParseSeed decodes a YAML document with a top-level "levels" list.
func ParseSeed(data []byte) ([]operation.Level, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("levels.ParseSeed: %w", err)
	}

	for i, l := range f.Levels {
		if strings.TrimSpace(l.LevelID) == "" {
			return nil, fmt.Errorf("levels.ParseSeed: entry %d: empty level_id", i)
		}
	}
	return f.Levels, nil
}

// LoadSeed reads a seed file, or every *.yaml / *.yml file of a directory.
// Files in a directory are parsed concurrently and merged in file name order,
// later files overriding earlier ones on the same level id.
func LoadSeed(ctx context.Context, path string) ([]operation.Level, error) {
	const op = "levels.LoadSeed"

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = seedFiles(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	parsed := make([][]operation.Level, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			levels, err := ParseSeed(data)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			parsed[i] = levels
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return merge(parsed), nil
}

func seedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	slices.Sort(files)
	return files, nil
}

func merge(parts [][]operation.Level) []operation.Level {
	index := make(map[string]int)
	var merged []operation.Level

	for _, part := range parts {
		for _, l := range part {
			if i, ok := index[l.LevelID]; ok {
				merged[i] = l
				continue
			}
			index[l.LevelID] = len(merged)
			merged = append(merged, l)
		}
	}
	return merged
}
