// Package resources builds and reconciles the child Kubernetes objects a
// NuOperator owns: the artifact-bundle ConfigMaps, the reconciler
// Deployment, and the hashing/drift logic tying the two together.
package resources

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
)

const (
	// SourcesConfigMapSuffix names the bundle holding one YAML document per
	// configured source.
	SourcesConfigMapSuffix = "nuop-sources-config"
	// MappingConfigMapSuffix names the bundle holding one YAML document per
	// configured mapping.
	MappingConfigMapSuffix = "nuop-mapping-config"
)

// FieldManager identifies the owner of a server-side-applied field set:
// "{kind}.{apiVersion}", matching the field_manager convention other
// controllers in this family use.
func FieldManager(kind, apiVersion string) string {
	return fmt.Sprintf("%s.%s", kind, apiVersion)
}

// slug turns a path-like identifier into a safe ConfigMap data key by
// replacing path separators with dashes.
func slug(path string) string {
	return strings.ReplaceAll(path, "/", "-")
}

// SourcesConfigMapName returns the name of the per-NuOperator sources
// bundle.
func SourcesConfigMapName(deploymentName string) string {
	return fmt.Sprintf("%s-%s", deploymentName, SourcesConfigMapSuffix)
}

// MappingConfigMapName returns the name of the per-NuOperator mappings
// bundle.
func MappingConfigMapName(deploymentName string) string {
	return fmt.Sprintf("%s-%s", deploymentName, MappingConfigMapSuffix)
}

// GenerateSourcesConfigMap renders the sources bundle, or nil if there are
// no sources — an empty source list never produces an empty ConfigMap.
func GenerateSourcesConfigMap(deploymentName, namespace string, owner *metav1.OwnerReference, sources []nuopv1alpha1.Source) (*corev1.ConfigMap, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	data := make(map[string]string, len(sources))
	for _, source := range sources {
		yamlDoc, err := marshalYAML(source)
		if err != nil {
			return nil, fmt.Errorf("serialize source %q: %w", source.Path, err)
		}
		data[slug(source.Path)+".yaml"] = yamlDoc
	}
	return buildConfigMap(SourcesConfigMapName(deploymentName), namespace, owner, data), nil
}

// GenerateMappingConfigMap renders the mappings bundle, or nil if there are
// no mappings.
func GenerateMappingConfigMap(deploymentName, namespace string, owner *metav1.OwnerReference, mappings []nuopv1alpha1.Mapping) (*corev1.ConfigMap, error) {
	if len(mappings) == 0 {
		return nil, nil
	}
	data := make(map[string]string, len(mappings))
	for _, mapping := range mappings {
		yamlDoc, err := marshalYAML(mapping)
		if err != nil {
			return nil, fmt.Errorf("serialize mapping %q: %w", mapping.Name, err)
		}
		data[slug(mapping.Name)+".yaml"] = yamlDoc
	}
	return buildConfigMap(MappingConfigMapName(deploymentName), namespace, owner, data), nil
}

func buildConfigMap(name, namespace string, owner *metav1.OwnerReference, data map[string]string) *corev1.ConfigMap {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Data: data,
	}
	if owner != nil {
		cm.OwnerReferences = []metav1.OwnerReference{*owner}
	}
	return cm
}

// ApplyConfigMap server-side applies desired, creating it if absent. Server
// manager identity is fieldManager. The existing ConfigMap is fetched first
// and compared on Data and BinaryData; when both already match, no write is
// issued at all, matching the original's "already up to date" short-circuit.
func ApplyConfigMap(ctx context.Context, c client.Client, desired *corev1.ConfigMap, fieldManager string) error {
	desired.TypeMeta = metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"}

	existing, err := GetConfigMap(ctx, c, desired.Namespace, desired.Name)
	if err != nil {
		return err
	}
	if existing != nil &&
		reflect.DeepEqual(existing.Data, desired.Data) &&
		reflect.DeepEqual(existing.BinaryData, desired.BinaryData) {
		return nil
	}

	return c.Patch(ctx, desired, client.Apply, client.FieldOwner(fieldManager), client.ForceOwnership)
}

// GetConfigMap fetches an existing ConfigMap, returning (nil, nil) when it
// does not exist yet.
func GetConfigMap(ctx context.Context, c client.Client, namespace, name string) (*corev1.ConfigMap, error) {
	cm := &corev1.ConfigMap{}
	err := c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, cm)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cm, nil
}
