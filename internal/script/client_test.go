package script

import (
	"context"
	"testing"

	"github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestClientAdapterGetStampsGVK(t *testing.T) {
	g := gomega.NewWithT(t)
	scheme := runtime.NewScheme()
	g.Expect(clientgoscheme.AddToScheme(scheme)).To(gomega.Succeed())

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "default"},
		Data:       map[string]string{"k": "v"},
	}
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(cm).Build()

	gvk := schema.GroupVersionKind{Version: "v1", Kind: "ConfigMap"}
	adapter := &ClientAdapter{Client: c, GVK: gvk}

	obj, err := adapter.Get(context.Background(), "default", "demo")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(obj.GetObjectKind().GroupVersionKind()).To(gomega.Equal(gvk))
	g.Expect(obj.GetName()).To(gomega.Equal("demo"))
}

func TestClientAdapterUpdateStampsGVK(t *testing.T) {
	g := gomega.NewWithT(t)
	scheme := runtime.NewScheme()
	g.Expect(clientgoscheme.AddToScheme(scheme)).To(gomega.Succeed())

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "default"},
	}
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(cm).Build()

	gvk := schema.GroupVersionKind{Version: "v1", Kind: "ConfigMap"}
	adapter := &ClientAdapter{Client: c, GVK: gvk}

	obj, err := adapter.Get(context.Background(), "default", "demo")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	obj.SetFinalizers([]string{"nuop.kemper.buzz/finalizer"})
	updated, err := adapter.Update(context.Background(), obj)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(updated.GetFinalizers()).To(gomega.ContainElement("nuop.kemper.buzz/finalizer"))

	roundTripped, err := adapter.Get(context.Background(), "default", "demo")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(roundTripped.GetFinalizers()).To(gomega.ContainElement("nuop.kemper.buzz/finalizer"))
}
