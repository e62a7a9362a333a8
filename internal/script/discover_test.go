package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/onsi/gomega"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
)

type configExecutor struct {
	byScript map[string][]byte
	errs     map[string]error
}

func (c *configExecutor) Config(_ context.Context, scriptPath string) ([]byte, error) {
	if err, ok := c.errs[scriptPath]; ok {
		return nil, err
	}
	return c.byScript[scriptPath], nil
}

func (c *configExecutor) Execute(_ context.Context, _, _ string, _ []byte) (Result, error) {
	return Result{}, nil
}

func TestDiscoverStandardDedupesByKind(t *testing.T) {
	g := gomega.NewWithT(t)
	executor := &configExecutor{byScript: map[string][]byte{
		"widget.nu":   []byte("version: v1\nkind: Widget\n"),
		"widget2.nu":  []byte("version: v1\nkind: Widget\n"),
		"gizmo.nu":    []byte("version: v1\nkind: Gizmo\n"),
	}}

	out := DiscoverStandard(context.Background(), executor, []string{"widget.nu", "widget2.nu", "gizmo.nu"}, logr.Discard())
	g.Expect(out).To(gomega.HaveLen(2))
	kinds := []string{out[0].Config.Kind, out[1].Config.Kind}
	g.Expect(kinds).To(gomega.ConsistOf("Widget", "Gizmo"))
}

func TestDiscoverStandardSkipsFailedConfig(t *testing.T) {
	g := gomega.NewWithT(t)
	executor := &configExecutor{
		byScript: map[string][]byte{"ok.nu": []byte("version: v1\nkind: Widget\n")},
		errs:     map[string]error{"broken.nu": os.ErrNotExist},
	}

	out := DiscoverStandard(context.Background(), executor, []string{"ok.nu", "broken.nu"}, logr.Discard())
	g.Expect(out).To(gomega.HaveLen(1))
	g.Expect(out[0].Script).To(gomega.Equal("ok.nu"))
}

func TestDiscoverManagedRequiresMappingMatch(t *testing.T) {
	g := gomega.NewWithT(t)
	executor := &configExecutor{byScript: map[string][]byte{
		"widget.nu": []byte("name: widgets\nversion: v1\nkind: Widget\n"),
		"gizmo.nu":  []byte("name: gizmos\nversion: v1\nkind: Gizmo\n"),
	}}
	mappings := []nuopv1alpha1.Mapping{{Name: "widgets", Version: "v1", Kind: "Widget"}}

	out := DiscoverManaged(context.Background(), executor, []string{"widget.nu", "gizmo.nu"}, mappings, logr.Discard())
	g.Expect(out).To(gomega.HaveLen(1))
	g.Expect(out[0].Config.Kind).To(gomega.Equal("Widget"))
}

func TestDiscoverManagedDedupesByGroupVersionKind(t *testing.T) {
	g := gomega.NewWithT(t)
	executor := &configExecutor{byScript: map[string][]byte{
		"widget.nu":  []byte("name: widgets\nversion: v1\nkind: Widget\n"),
		"widget2.nu": []byte("name: other-name\nversion: v1\nkind: Widget\n"),
	}}
	mappings := []nuopv1alpha1.Mapping{
		{Name: "widgets", Version: "v1", Kind: "Widget"},
		{Name: "other-name", Version: "v1", Kind: "Widget"},
	}

	out := DiscoverManaged(context.Background(), executor, []string{"widget.nu", "widget2.nu"}, mappings, logr.Discard())
	g.Expect(out).To(gomega.HaveLen(1))
}

func TestLoadConfigWrapsErrorsInDiscoveryError(t *testing.T) {
	g := gomega.NewWithT(t)
	executor := &configExecutor{errs: map[string]error{"broken.nu": os.ErrPermission}}

	_, err := LoadConfig(context.Background(), executor, "broken.nu")
	g.Expect(err).To(gomega.HaveOccurred())
	var discoveryErr *DiscoveryError
	g.Expect(err).To(gomega.BeAssignableToTypeOf(discoveryErr))
}

func TestLoadMappingsSkipsUnreadableFiles(t *testing.T) {
	g := gomega.NewWithT(t)
	root := t.TempDir()
	good := filepath.Join(root, "good.yaml")
	g.Expect(os.WriteFile(good, []byte("name: widgets\nversion: v1\nkind: Widget\n"), 0o644)).To(gomega.Succeed())

	missing := filepath.Join(root, "missing.yaml")

	out := LoadMappings([]string{good, missing}, logr.Discard())
	g.Expect(out).To(gomega.HaveLen(1))
	g.Expect(out[0].Name).To(gomega.Equal("widgets"))
}
