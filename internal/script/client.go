package script

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ClientAdapter is the real DynamicClient, a thin wrapper over
// controller-runtime's generic client.Client for one fixed GVK. It lets the
// reconcile logic in phase.go/reconciler.go depend on the narrow
// DynamicClient interface instead of controller-runtime directly.
type ClientAdapter struct {
	Client client.Client
	GVK    schema.GroupVersionKind
}

var _ DynamicClient = (*ClientAdapter)(nil)

// Get fetches the object by namespace/name, stamping the configured GVK
// onto the returned unstructured object.
func (a *ClientAdapter) Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error) {
	obj := &unstructured.Unstructured{}
	obj.SetGroupVersionKind(a.GVK)
	if err := a.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Update replaces obj through the cluster client (full-object PUT
// semantics).
func (a *ClientAdapter) Update(ctx context.Context, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	obj.SetGroupVersionKind(a.GVK)
	if err := a.Client.Update(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}
