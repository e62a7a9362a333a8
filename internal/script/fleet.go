package script

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/dynamic/dynamicinformer"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Controller is one independent reconcile loop over a single accepted
// (script, KindConfig) pair: its own filtered dynamic informer feeding its
// own rate-limited workqueue, draining into a ScriptReconciler. Every
// kind-script pairing the fleet builder accepts gets one of these.
type Controller struct {
	Name          string
	Reconciler    *ScriptReconciler
	GVK           schema.GroupVersionKind
	Namespace     string
	LabelSelector string
	FieldSelector string

	Dynamic    dynamic.Interface
	RESTMapper apimeta.RESTMapper

	ResyncPeriod time.Duration
	Log          logr.Logger
}

const defaultResyncPeriod = 10 * time.Hour

// Run builds the informer+queue pair for this controller's GVK and blocks
// until ctx is cancelled or an unrecoverable error occurs setting up the
// watch.
func (c *Controller) Run(ctx context.Context) error {
	gvr, err := mapGVKToGVR(c.RESTMapper, c.GVK)
	if err != nil {
		return fmt.Errorf("controller %s: resolve GVR: %w", c.Name, err)
	}

	resync := c.ResyncPeriod
	if resync == 0 {
		resync = defaultResyncPeriod
	}

	factory := dynamicinformer.NewFilteredDynamicSharedInformerFactory(c.Dynamic, resync, c.Namespace, func(opts *metav1.ListOptions) {
		opts.LabelSelector = c.LabelSelector
		opts.FieldSelector = c.FieldSelector
	})
	informer := factory.ForResource(gvr).Informer()

	queue := workqueue.NewTypedRateLimitingQueue(workqueue.DefaultTypedControllerRateLimiter[requeueKey]())

	handler, err := informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    func(obj interface{}) { enqueue(queue, obj) },
		UpdateFunc: func(_, obj interface{}) { enqueue(queue, obj) },
		DeleteFunc: func(obj interface{}) { enqueue(queue, obj) },
	})
	if err != nil {
		return fmt.Errorf("controller %s: add event handler: %w", c.Name, err)
	}
	defer func() { _ = informer.RemoveEventHandler(handler) }()

	factory.Start(ctx.Done())
	if !cache.WaitForCacheSync(ctx.Done(), informer.HasSynced) {
		return fmt.Errorf("controller %s: cache never synced", c.Name)
	}

	c.Log.Info("controller started", "gvk", c.GVK.String())

	go func() {
		<-ctx.Done()
		queue.ShutDown()
	}()

	for c.processNext(ctx, queue) {
	}
	return ctx.Err()
}

// requeueKey is the workqueue item: a namespace/name key plus enough
// identity to rebuild a ctrl.Request.
type requeueKey struct {
	namespace, name string
}

func enqueue(queue workqueue.TypedRateLimitingInterface[requeueKey], obj interface{}) {
	key, err := cache.DeletionHandlingMetaNamespaceKeyFunc(obj)
	if err != nil {
		return
	}
	namespace, name, err := cache.SplitMetaNamespaceKey(key)
	if err != nil {
		return
	}
	queue.Add(requeueKey{namespace: namespace, name: name})
}

func (c *Controller) processNext(ctx context.Context, queue workqueue.TypedRateLimitingInterface[requeueKey]) bool {
	key, shutdown := queue.Get()
	if shutdown {
		return false
	}
	defer queue.Done(key)

	req := ctrl.Request{NamespacedName: client.ObjectKey{Namespace: key.namespace, Name: key.name}}
	result, err := c.Reconciler.Reconcile(ctx, req)
	switch {
	case err != nil:
		c.Log.Error(err, "reconcile failed", "namespace", key.namespace, "name", key.name)
		queue.AddAfter(key, ErrorPolicy(err))
	case result.RequeueAfter > 0:
		queue.Forget(key)
		queue.AddAfter(key, result.RequeueAfter)
	case result.Requeue:
		queue.AddRateLimited(key)
	default:
		queue.Forget(key)
	}
	return true
}

func mapGVKToGVR(mapper apimeta.RESTMapper, gvk schema.GroupVersionKind) (schema.GroupVersionResource, error) {
	mapping, err := mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return schema.GroupVersionResource{}, err
	}
	return mapping.Resource, nil
}

// Fleet runs every accepted controller concurrently and exits on the first
// failure, cancelling the rest (errgroup's "first error wins" semantics).
type Fleet struct {
	Controllers []*Controller
}

func (f *Fleet) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, controller := range f.Controllers {
		controller := controller
		group.Go(func() error {
			return controller.Run(groupCtx)
		})
	}
	return group.Wait()
}
