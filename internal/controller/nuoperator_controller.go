/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	crcontroller "sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
	"github.com/ck3mp3r/nuop/internal/resources"
)

// defaultImage is the worker image used when NuOperatorSpec.Image is unset.
const defaultImage = "nuop-worker:latest"

// requeueAfterSuccess is issued after every reconcile that completes
// without error: there is no finalizer lifecycle here, only a steady
// drift-correction loop.
const requeueAfterSuccess = 300 * time.Second

// requeueAfterError is issued by the manager's error policy.
const requeueAfterError = 60 * time.Second

// NuOperatorReconciler reconciles a NuOperator object: it materializes one
// worker Deployment and its artifact-bundle ConfigMaps, keeping them in
// sync with NuOperatorSpec and correcting drift on every pass.
type NuOperatorReconciler struct {
	client.Client
	Scheme *runtime.Scheme
}

// +kubebuilder:rbac:groups=kemper.buzz,resources=nuoperators,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=kemper.buzz,resources=nuoperators/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=configmaps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=coordination.k8s.io,resources=leases,verbs=get;list;watch;create;update;patch;delete

// Reconcile builds the desired artifact bundles and worker Deployment for
// one NuOperator, applies them, and requeues on a fixed interval. There is
// no finalizer: every child object carries an owner reference and is
// garbage-collected by the API server when the NuOperator is deleted.
func (r *NuOperatorReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	nuop := &nuopv1alpha1.NuOperator{}
	if err := r.Get(ctx, req.NamespacedName, nuop); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	deploymentName := resources.DeploymentName(nuop.Name)
	fieldManager := resources.FieldManager(nuop.Kind, nuop.APIVersion)

	mappingCM, err := resources.GenerateMappingConfigMap(deploymentName, nuop.Namespace, nil, nuop.Spec.Mappings)
	if err != nil {
		return ctrl.Result{}, fmt.Errorf("generating mapping config map: %w", err)
	}
	if mappingCM != nil {
		if err := controllerutil.SetControllerReference(nuop, mappingCM, r.Scheme); err != nil {
			return ctrl.Result{}, fmt.Errorf("setting owner reference on mapping config map: %w", err)
		}
		if err := resources.ApplyConfigMap(ctx, r.Client, mappingCM, fieldManager); err != nil {
			return ctrl.Result{}, fmt.Errorf("applying mapping config map: %w", err)
		}
	}

	sourcesCM, err := resources.GenerateSourcesConfigMap(deploymentName, nuop.Namespace, nil, nuop.Spec.Sources)
	if err != nil {
		return ctrl.Result{}, fmt.Errorf("generating sources config map: %w", err)
	}
	if sourcesCM != nil {
		if err := controllerutil.SetControllerReference(nuop, sourcesCM, r.Scheme); err != nil {
			return ctrl.Result{}, fmt.Errorf("setting owner reference on sources config map: %w", err)
		}
		if err := resources.ApplyConfigMap(ctx, r.Client, sourcesCM, fieldManager); err != nil {
			return ctrl.Result{}, fmt.Errorf("applying sources config map: %w", err)
		}
	}

	hash := resources.HashBundles(configMapData(mappingCM), configMapData(sourcesCM))

	image := defaultImage
	if nuop.Spec.Image != nil {
		image = *nuop.Spec.Image
	}

	desired := resources.GenerateDeployment(
		resources.DeploymentMeta{
			Name:               deploymentName,
			Namespace:          nuop.Namespace,
			ServiceAccountName: nuop.Spec.ServiceAccountName,
			Annotations:        map[string]string{resources.HashAnnotation: hash},
		},
		image,
		nuop.Spec.Env,
		nuop.Spec.Sources,
		nuop.Spec.Mappings,
	)
	if err := controllerutil.SetControllerReference(nuop, desired, r.Scheme); err != nil {
		return ctrl.Result{}, fmt.Errorf("setting owner reference on deployment: %w", err)
	}

	if err := resources.ApplyDeployment(ctx, r.Client, desired, fieldManager); err != nil {
		return ctrl.Result{}, fmt.Errorf("applying deployment: %w", err)
	}

	if nuop.Status.ObservedGeneration != nuop.Generation {
		nuop.Status.ObservedGeneration = nuop.Generation
		if err := r.Status().Update(ctx, nuop); err != nil {
			return ctrl.Result{}, fmt.Errorf("updating status: %w", err)
		}
	}

	log.Info("reconciliation complete", "name", nuop.Name, "deployment", deploymentName)
	return ctrl.Result{RequeueAfter: requeueAfterSuccess}, nil
}

// ErrorPolicy is the fixed back-off applied whenever Reconcile returns an
// error, mirroring the manager's own retry cadence rather than
// controller-runtime's exponential default.
func ErrorPolicy() time.Duration {
	return requeueAfterError
}

func configMapData(cm *corev1.ConfigMap) map[string]string {
	if cm == nil {
		return nil
	}
	return cm.Data
}

// SetupWithManager sets up the controller with the Manager.
func (r *NuOperatorReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&nuopv1alpha1.NuOperator{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.ConfigMap{}).
		WithOptions(crcontroller.Options{
			RateLimiter: workqueue.NewTypedItemExponentialFailureRateLimiter[reconcile.Request](ErrorPolicy(), ErrorPolicy()),
		}).
		Named("nuoperator").
		Complete(r)
}
