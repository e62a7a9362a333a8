package script

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Phase is the reconcile state machine's result.
type Phase int

const (
	// PhaseNeedsFinalizer means the object needs the finalizer appended
	// before anything else happens.
	PhaseNeedsFinalizer Phase = iota
	// PhaseActive means the object is live and the script should run its
	// "reconcile" command.
	PhaseActive
	// PhaseFinalizing means the object is being deleted and the
	// finalizer is still present; the script's "finalize" command must
	// run before the finalizer is removed.
	PhaseFinalizing
	// PhaseNoop means no finalizer is configured for this kind; the
	// script always runs its reconcile command with no finalizer
	// lifecycle involved.
	PhaseNoop
)

// NoopCommand is the script command dispatched for PhaseNoop.
const NoopCommand = CmdReconcile

// DetectPhase is a pure function of the object's finalizer list, deletion
// timestamp, and whether a finalizer is configured at all.
func DetectPhase(obj *unstructured.Unstructured, finalizer *string) Phase {
	if finalizer == nil {
		return PhaseNoop
	}

	has := containsFinalizer(obj.GetFinalizers(), *finalizer)
	deleting := obj.GetDeletionTimestamp() != nil

	switch {
	case deleting && has:
		return PhaseFinalizing
	case !has:
		return PhaseNeedsFinalizer
	default:
		return PhaseActive
	}
}

func containsFinalizer(finalizers []string, target string) bool {
	for _, f := range finalizers {
		if f == target {
			return true
		}
	}
	return false
}

// DynamicClient is the narrow, injectable view of the generic cluster
// client this package needs: read-and-replace of the watched object. The
// production implementation adapts sigs.k8s.io/controller-runtime's
// client.Client; tests substitute a fake.
type DynamicClient interface {
	Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error)
	Update(ctx context.Context, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)
}

// Outcome describes what a finalizer mutation accomplished, so the caller
// can pick the right requeue.
type Outcome int

const (
	// OutcomeRequeue means a write happened; requeue shortly so the
	// reconciler observes the updated object.
	OutcomeRequeue Outcome = iota
	// OutcomeAwaitChange means no write was needed; wait for the next
	// external change.
	OutcomeAwaitChange
)

// requeueAfterFinalizerAdd is the short requeue issued after successfully
// adding a finalizer.
const requeueAfterFinalizerAdd = 5 * time.Second

// AddFinalizer appends finalizer to obj if absent and replaces it through
// the cluster. Idempotent: skips the write if the finalizer is already
// present.
func AddFinalizer(ctx context.Context, client DynamicClient, obj *unstructured.Unstructured, finalizer string) (Outcome, time.Duration, error) {
	finalizers := obj.GetFinalizers()
	if containsFinalizer(finalizers, finalizer) {
		return OutcomeAwaitChange, 0, nil
	}

	updated := obj.DeepCopy()
	updated.SetFinalizers(append(append([]string{}, finalizers...), finalizer))

	if _, err := client.Update(ctx, updated); err != nil {
		return 0, 0, newApiError(500, "Failed to add finalizer", err)
	}
	return OutcomeRequeue, requeueAfterFinalizerAdd, nil
}

// RemoveFinalizer filters finalizer out of obj's finalizer list and
// replaces it through the cluster.
func RemoveFinalizer(ctx context.Context, client DynamicClient, obj *unstructured.Unstructured, finalizer string) (Outcome, error) {
	finalizers := obj.GetFinalizers()
	kept := make([]string, 0, len(finalizers))
	for _, f := range finalizers {
		if f != finalizer {
			kept = append(kept, f)
		}
	}

	updated := obj.DeepCopy()
	updated.SetFinalizers(kept)

	if _, err := client.Update(ctx, updated); err != nil {
		return 0, newApiError(500, "Failed to remove finalizer", err)
	}
	return OutcomeAwaitChange, nil
}
