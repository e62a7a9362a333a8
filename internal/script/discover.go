package script

import (
	"context"

	"github.com/go-logr/logr"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
)

// ScriptConfig pairs an accepted script with its effective KindConfig
// (after any mapping overlay), ready to spawn a controller for.
type ScriptConfig struct {
	Script string
	Config KindConfig
}

// LoadConfig invokes a script's "config" query and parses the result. Any
// failure is a DiscoveryError: the script is discarded, the fleet build
// continues.
func LoadConfig(ctx context.Context, executor Executor, scriptPath string) (KindConfig, error) {
	raw, err := executor.Config(ctx, scriptPath)
	if err != nil {
		return KindConfig{}, &DiscoveryError{Path: scriptPath, Err: err}
	}
	cfg, err := ParseKindConfig(raw)
	if err != nil {
		return KindConfig{}, &DiscoveryError{Path: scriptPath, Err: err}
	}
	return cfg, nil
}

// DiscoverStandard loads every script's config and deduplicates on Kind
// alone: first occurrence wins, later ones are dropped with a logged
// "duplicate" error.
func DiscoverStandard(ctx context.Context, executor Executor, scripts []string, log logr.Logger) []ScriptConfig {
	seen := make(map[string]bool, len(scripts))
	var out []ScriptConfig

	for _, scriptPath := range scripts {
		cfg, err := LoadConfig(ctx, executor, scriptPath)
		if err != nil {
			log.Error(err, "failed to get script config", "script", scriptPath)
			continue
		}
		if seen[cfg.Kind] {
			log.Error(nil, "duplicate kind found", "script", scriptPath, "kind", cfg.Kind)
			continue
		}
		seen[cfg.Kind] = true
		out = append(out, ScriptConfig{Script: scriptPath, Config: cfg})
	}
	return out
}

type managedKey struct {
	group, version, kind string
}

// DiscoverManaged loads every script's config, requires a matching Mapping
// (identity: name, group, version, kind), overlays it, and deduplicates on
// the (group, version, kind) triple. Scripts with no matching mapping are
// dropped with a warning, not an error — the fleet still builds.
func DiscoverManaged(ctx context.Context, executor Executor, scripts []string, mappings []nuopv1alpha1.Mapping, log logr.Logger) []ScriptConfig {
	seen := make(map[managedKey]bool, len(scripts))
	var out []ScriptConfig

	for _, scriptPath := range scripts {
		cfg, err := LoadConfig(ctx, executor, scriptPath)
		if err != nil {
			log.Error(err, "failed to get script config", "script", scriptPath)
			continue
		}

		mapping, found := findMapping(mappings, cfg)
		if !found {
			log.Info("no mapping present for script, skipping", "script", scriptPath, "name", cfg.Name, "group", cfg.Group, "version", cfg.Version, "kind", cfg.Kind)
			continue
		}

		key := managedKey{group: cfg.Group, version: cfg.Version, kind: cfg.Kind}
		if seen[key] {
			log.Error(nil, "duplicate group/version/kind found", "script", scriptPath, "key", key)
			continue
		}
		seen[key] = true

		out = append(out, ScriptConfig{Script: scriptPath, Config: Overlay(cfg, mapping)})
	}
	return out
}

func findMapping(mappings []nuopv1alpha1.Mapping, cfg KindConfig) (nuopv1alpha1.Mapping, bool) {
	for _, m := range mappings {
		if Matches(cfg, m) {
			return m, true
		}
	}
	return nuopv1alpha1.Mapping{}, false
}

// LoadMappings parses every mapping file path, logging and skipping any
// that fail to open or parse. Discovery errors never abort the fleet
// build.
func LoadMappings(paths []string, log logr.Logger) []nuopv1alpha1.Mapping {
	var out []nuopv1alpha1.Mapping
	for _, path := range paths {
		m, err := loadMapping(path)
		if err != nil {
			log.Error(err, "failed to load mapping", "path", path)
			continue
		}
		out = append(out, m)
	}
	return out
}
