package script

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/onsi/gomega"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/util/workqueue"
)

func TestMapGVKToGVRResolvesResource(t *testing.T) {
	g := gomega.NewWithT(t)

	gvk := schema.GroupVersionKind{Group: "kemper.buzz", Version: "v1", Kind: "Widget"}
	mapper := apimeta.NewDefaultRESTMapper([]schema.GroupVersion{{Group: "kemper.buzz", Version: "v1"}})
	mapper.Add(gvk, apimeta.RESTScopeNamespace)

	gvr, err := mapGVKToGVR(mapper, gvk)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(gvr).To(gomega.Equal(schema.GroupVersionResource{Group: "kemper.buzz", Version: "v1", Resource: "widgets"}))
}

func TestMapGVKToGVRUnknownKindErrors(t *testing.T) {
	g := gomega.NewWithT(t)

	mapper := apimeta.NewDefaultRESTMapper([]schema.GroupVersion{{Group: "kemper.buzz", Version: "v1"}})
	_, err := mapGVKToGVR(mapper, schema.GroupVersionKind{Group: "kemper.buzz", Version: "v1", Kind: "Unregistered"})
	g.Expect(err).To(gomega.HaveOccurred())
}

func TestProcessNextForgetsQueueOnSuccessWithNoRequeue(t *testing.T) {
	g := gomega.NewWithT(t)

	obj := objWithFinalizers(nil, false)
	executor := &fakeExecutor{executeOut: Result{ExitCode: ExitNoop}}
	c := &Controller{
		Name: "Widget",
		Reconciler: &ScriptReconciler{
			Client:   &fakeDynamicClient{getObj: obj},
			Config:   KindConfig{RequeueAfterNoop: 0},
			Executor: executor,
		},
		Log: logr.Discard(),
	}

	queue := workqueue.NewTypedRateLimitingQueue(workqueue.DefaultTypedControllerRateLimiter[requeueKey]())
	queue.Add(requeueKey{namespace: "default", name: "demo"})

	more := c.processNext(context.Background(), queue)
	g.Expect(more).To(gomega.BeTrue())
	g.Expect(queue.Len()).To(gomega.Equal(0))
}

func TestProcessNextRequeuesAfterError(t *testing.T) {
	g := gomega.NewWithT(t)

	c := &Controller{
		Name: "Widget",
		Reconciler: &ScriptReconciler{
			Client: &fakeDynamicClient{getErr: errBoom},
		},
		Log: logr.Discard(),
	}

	queue := workqueue.NewTypedRateLimitingQueue(workqueue.DefaultTypedControllerRateLimiter[requeueKey]())
	queue.Add(requeueKey{namespace: "default", name: "demo"})

	more := c.processNext(context.Background(), queue)
	g.Expect(more).To(gomega.BeTrue())

	time.Sleep(10 * time.Millisecond)
}

func TestFleetRunReturnsFirstError(t *testing.T) {
	g := gomega.NewWithT(t)

	fleet := &Fleet{Controllers: []*Controller{
		{Name: "broken", RESTMapper: apimeta.NewDefaultRESTMapper(nil), GVK: schema.GroupVersionKind{Group: "kemper.buzz", Version: "v1", Kind: "Missing"}, Log: logr.Discard()},
	}}

	err := fleet.Run(context.Background())
	g.Expect(err).To(gomega.HaveOccurred())
}

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}
