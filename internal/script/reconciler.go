package script

import (
	"context"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/yaml"
)

// errorPolicyRequeue is the fixed back-off every surfaced reconcile error
// is mapped to. It does not distinguish API errors from script errors.
const errorPolicyRequeue = 300 * time.Second

// ScriptReconciler wraps the reconcile state machine and the subprocess
// protocol into one controller-runtime reconcile.Reconciler per accepted
// (script, KindConfig) pair: fetch, branch on phase, delegate, translate
// the result into a ctrl.Result.
type ScriptReconciler struct {
	Client   DynamicClient
	Config   KindConfig
	Script   string
	Executor Executor
}

// Reconcile implements reconcile.Reconciler.
func (r *ScriptReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	obj, err := r.Client.Get(ctx, req.Namespace, req.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, newApiError(500, "Failed to get object", err)
	}

	phase := DetectPhase(obj, r.Config.Finalizer)

	switch phase {
	case PhaseNeedsFinalizer:
		outcome, after, err := AddFinalizer(ctx, r.Client, obj, *r.Config.Finalizer)
		if err != nil {
			return ctrl.Result{}, err
		}
		if outcome == OutcomeRequeue {
			log.Info("added finalizer", "namespace", req.Namespace, "name", req.Name)
			return ctrl.Result{RequeueAfter: after}, nil
		}
		return ctrl.Result{}, nil

	case PhaseActive:
		return r.runDelegate(ctx, obj, CmdReconcile)

	case PhaseFinalizing:
		result, err := r.runDelegate(ctx, obj, CmdFinalize)
		if err != nil {
			return ctrl.Result{}, err
		}
		if _, err := RemoveFinalizer(ctx, r.Client, obj, *r.Config.Finalizer); err != nil {
			return ctrl.Result{}, err
		}
		return result, nil

	default: // PhaseNoop
		return r.runDelegate(ctx, obj, NoopCommand)
	}
}

// runDelegate serializes obj to YAML, invokes the script, and translates
// the exit code into a requeue or an error.
func (r *ScriptReconciler) runDelegate(ctx context.Context, obj *unstructured.Unstructured, command string) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	input, err := yaml.Marshal(obj.Object)
	if err != nil {
		return ctrl.Result{}, newApiError(500, "Failed to serialize object", err)
	}

	result, err := r.Executor.Execute(ctx, r.Script, command, input)
	if err != nil {
		return ctrl.Result{}, newApiError(500, "Failed to spawn script", err)
	}

	if result.Stderr != "" {
		for _, line := range splitLines(result.Stderr) {
			log.Error(nil, line)
		}
	}
	if result.Stdout != "" {
		for _, line := range splitLines(result.Stdout) {
			log.Info(line)
		}
	}

	switch result.ExitCode {
	case ExitNoop:
		return ctrl.Result{RequeueAfter: time.Duration(r.Config.RequeueAfterNoop) * time.Second}, nil
	case ExitChange:
		return ctrl.Result{RequeueAfter: time.Duration(r.Config.RequeueAfterChange) * time.Second}, nil
	default:
		return ctrl.Result{}, &ScriptExitError{ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// ErrorPolicy is the fixed-backoff error policy. It never distinguishes
// error kinds.
func ErrorPolicy(error) time.Duration {
	return errorPolicyRequeue
}
