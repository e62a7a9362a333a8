package script

import (
	"os"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
)

const (
	defaultRequeueAfterChange = int64(10)
	defaultRequeueAfterNoop   = int64(300)
)

// KindConfig is a script's declared target kind and tuning, produced by its
// "config" invocation and optionally overlaid by a Mapping.
type KindConfig struct {
	Name    string `json:"name"`
	Group   string `json:"group,omitempty"`
	Version string `json:"version"`
	Kind    string `json:"kind"`

	LabelSelectors map[string]string `json:"labelSelectors,omitempty"`
	FieldSelectors map[string]string `json:"fieldSelectors,omitempty"`

	Finalizer *string `json:"finalizer,omitempty"`
	Namespace *string `json:"namespace,omitempty"`

	RequeueAfterChange int64 `json:"requeueAfterChange,omitempty"`
	RequeueAfterNoop   int64 `json:"requeueAfterNoop,omitempty"`
}

// ParseKindConfig decodes a script's "config" stdout into a KindConfig,
// applying the default requeue intervals when absent.
func ParseKindConfig(data []byte) (KindConfig, error) {
	var cfg KindConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return KindConfig{}, err
	}
	if cfg.Version == "" || cfg.Kind == "" {
		return KindConfig{}, errMissingVersionKind
	}
	if cfg.RequeueAfterChange == 0 {
		cfg.RequeueAfterChange = defaultRequeueAfterChange
	}
	if cfg.RequeueAfterNoop == 0 {
		cfg.RequeueAfterNoop = defaultRequeueAfterNoop
	}
	return cfg, nil
}

// GVK returns the group/version/kind coordinate this config targets.
func (c KindConfig) GVK() schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: c.Group, Version: c.Version, Kind: c.Kind}
}

// LabelSelector renders LabelSelectors as a Kubernetes selector string, or
// "" when there is no filter.
func (c KindConfig) LabelSelector() string {
	return selectorString(c.LabelSelectors)
}

// FieldSelector renders FieldSelectors as a Kubernetes selector string, or
// "" when there is no filter.
func (c KindConfig) FieldSelector() string {
	return selectorString(c.FieldSelectors)
}

func selectorString(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ",")
}

// Overlay applies a non-empty Mapping field over a script-declared
// KindConfig: every overlaid field is replaced wholesale, never merged
// key-by-key, and an empty override never clears a value.
func Overlay(cfg KindConfig, m nuopv1alpha1.Mapping) KindConfig {
	out := cfg
	if len(m.FieldSelectors) > 0 {
		out.FieldSelectors = m.FieldSelectors
	}
	if len(m.LabelSelectors) > 0 {
		out.LabelSelectors = m.LabelSelectors
	}
	if m.RequeueAfterChange != nil {
		out.RequeueAfterChange = *m.RequeueAfterChange
	}
	if m.RequeueAfterNoop != nil {
		out.RequeueAfterNoop = *m.RequeueAfterNoop
	}
	return out
}

// Matches reports whether a Mapping's identity fields (name, group,
// version, kind) select this config.
func Matches(cfg KindConfig, m nuopv1alpha1.Mapping) bool {
	return cfg.Name == m.Name && cfg.Group == m.Group &&
		cfg.Version == m.Version && cfg.Kind == m.Kind
}

// loadMapping reads and decodes a single mapping YAML file from disk. Mapping
// files live under NUOP_MAPPINGS_PATH and are discovered by FindMappings.
func loadMapping(path string) (nuopv1alpha1.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nuopv1alpha1.Mapping{}, &DiscoveryError{Path: path, Err: err}
	}
	var m nuopv1alpha1.Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nuopv1alpha1.Mapping{}, &DiscoveryError{Path: path, Err: err}
	}
	return m, nil
}

type kindConfigError string

func (e kindConfigError) Error() string { return string(e) }

const errMissingVersionKind = kindConfigError("version and kind are required")
