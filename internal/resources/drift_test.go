package resources

import (
	"context"
	"testing"

	"github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func int32Ptr(v int32) *int32 { return &v }

func baseDeployment() *appsv1.Deployment {
	return &appsv1.Deployment{
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(1),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Volumes: []corev1.Volume{{Name: "scripts"}},
					Containers: []corev1.Container{{
						Name:  "nureconciler",
						Image: "nuop-worker:latest",
						Env:   []corev1.EnvVar{{Name: "NUOP_MODE", Value: "managed"}},
					}},
				},
			},
		},
	}
}

func TestHasDriftedNoChange(t *testing.T) {
	g := gomega.NewWithT(t)
	existing := baseDeployment()
	desired := baseDeployment()
	g.Expect(HasDrifted(existing, desired)).To(gomega.BeFalse())
}

func TestHasDriftedReplicaChange(t *testing.T) {
	g := gomega.NewWithT(t)
	existing := baseDeployment()
	desired := baseDeployment()
	desired.Spec.Replicas = int32Ptr(3)
	g.Expect(HasDrifted(existing, desired)).To(gomega.BeTrue())
}

func TestHasDriftedImageChange(t *testing.T) {
	g := gomega.NewWithT(t)
	existing := baseDeployment()
	desired := baseDeployment()
	desired.Spec.Template.Spec.Containers[0].Image = "nuop-worker:v2"
	g.Expect(HasDrifted(existing, desired)).To(gomega.BeTrue())
}

func TestHasDriftedAnnotationChange(t *testing.T) {
	g := gomega.NewWithT(t)
	existing := baseDeployment()
	desired := baseDeployment()
	desired.Annotations = map[string]string{HashAnnotation: "abc123"}
	g.Expect(HasDrifted(existing, desired)).To(gomega.BeTrue())
}

func TestHasDriftedIgnoresLengthMismatch(t *testing.T) {
	g := gomega.NewWithT(t)
	existing := baseDeployment()
	desired := baseDeployment()
	desired.Spec.Template.Spec.Volumes = append(desired.Spec.Template.Spec.Volumes, corev1.Volume{Name: "extra"})
	desired.Spec.Template.Spec.Containers = append(desired.Spec.Template.Spec.Containers, corev1.Container{Name: "sidecar", Image: "sidecar:latest"})

	g.Expect(HasDrifted(existing, desired)).To(gomega.BeFalse())
}

func TestHashBundlesDeterministicAndOrderIndependent(t *testing.T) {
	g := gomega.NewWithT(t)

	mapping := map[string]string{"widget.yaml": "kind: Widget", "gizmo.yaml": "kind: Gizmo"}
	sources := map[string]string{"repo.yaml": "location: https://example.com"}

	h1 := HashBundles(mapping, sources)
	h2 := HashBundles(mapping, sources)
	g.Expect(h1).To(gomega.Equal(h2))

	reorderedMapping := map[string]string{"gizmo.yaml": "kind: Gizmo", "widget.yaml": "kind: Widget"}
	g.Expect(HashBundles(reorderedMapping, sources)).To(gomega.Equal(h1))
}

func TestHashBundlesChangesWithContent(t *testing.T) {
	g := gomega.NewWithT(t)

	h1 := HashBundles(map[string]string{"a.yaml": "1"}, nil)
	h2 := HashBundles(map[string]string{"a.yaml": "2"}, nil)
	g.Expect(h1).ToNot(gomega.Equal(h2))
}

func TestHashBundlesMappingAndSourcesOrderMatters(t *testing.T) {
	g := gomega.NewWithT(t)

	h1 := HashBundles(map[string]string{"a.yaml": "x"}, map[string]string{"a.yaml": "y"})
	h2 := HashBundles(map[string]string{"a.yaml": "y"}, map[string]string{"a.yaml": "x"})
	g.Expect(h1).ToNot(gomega.Equal(h2))
}

func driftTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		t.Fatalf("adding scheme: %v", err)
	}
	return scheme
}

func TestApplyDeploymentCreatesThenNoopsThenUpdates(t *testing.T) {
	g := gomega.NewWithT(t)
	c := fake.NewClientBuilder().WithScheme(driftTestScheme(t)).Build()
	ctx := context.Background()

	desired := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "demo-nuop", Namespace: "default"},
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(1),
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": "demo-nuop"}},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"app": "demo-nuop"}},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{{Name: "nureconciler", Image: "nuop-worker:latest"}}},
			},
		},
	}

	g.Expect(ApplyDeployment(ctx, c, desired.DeepCopy(), "Deployment.apps/v1")).To(gomega.Succeed())

	var created appsv1.Deployment
	g.Expect(c.Get(ctx, client.ObjectKeyFromObject(desired), &created)).To(gomega.Succeed())
	resourceVersion := created.ResourceVersion

	g.Expect(ApplyDeployment(ctx, c, desired.DeepCopy(), "Deployment.apps/v1")).To(gomega.Succeed())
	var unchanged appsv1.Deployment
	g.Expect(c.Get(ctx, client.ObjectKeyFromObject(desired), &unchanged)).To(gomega.Succeed())
	g.Expect(unchanged.ResourceVersion).To(gomega.Equal(resourceVersion), "re-applying an unchanged desired state must not write")

	changed := desired.DeepCopy()
	changed.Spec.Template.Spec.Containers[0].Image = "nuop-worker:v2"
	g.Expect(ApplyDeployment(ctx, c, changed, "Deployment.apps/v1")).To(gomega.Succeed())

	var updated appsv1.Deployment
	g.Expect(c.Get(ctx, client.ObjectKeyFromObject(desired), &updated)).To(gomega.Succeed())
	g.Expect(updated.ResourceVersion).ToNot(gomega.Equal(resourceVersion))
	g.Expect(updated.Spec.Template.Spec.Containers[0].Image).To(gomega.Equal("nuop-worker:v2"))
}
