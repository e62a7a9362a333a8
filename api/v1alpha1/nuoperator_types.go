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

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Credentials references the secret keys used to authenticate against a
// Source's location. At most one of the three is expected to be set, but
// all are independently optional; Token takes priority over Username over
// Password when a single secret name must be picked for a volume mount.
type Credentials struct {
	// Token references a secret key holding a bearer token.
	// +optional
	Token *corev1.SecretKeySelector `json:"token,omitempty"`

	// Username references a secret key holding a basic-auth username.
	// +optional
	Username *corev1.SecretKeySelector `json:"username,omitempty"`

	// Password references a secret key holding a basic-auth password.
	// +optional
	Password *corev1.SecretKeySelector `json:"password,omitempty"`
}

// Source describes one location the managed worker should fetch reconcile
// scripts from at init time.
type Source struct {
	// Location is the fetchable source, e.g. a git repository URL.
	Location string `json:"location"`

	// Path is the relative path under /scripts the source is checked out
	// to, and the basis for its generated ConfigMap/Secret volume names.
	Path string `json:"path"`

	// Credentials authenticates against Location, if required.
	// +optional
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Mapping overlays a script-declared KindConfig. The identity fields
// (Name, Group, Version, Kind) select which script it applies to; any
// non-empty override field fully replaces the corresponding script value.
type Mapping struct {
	// Name must match the script-declared KindConfig.Name.
	// +optional
	Name string `json:"name,omitempty"`

	// Group must match the script-declared KindConfig.Group.
	// +optional
	Group string `json:"group,omitempty"`

	// Version must match the script-declared KindConfig.Version.
	Version string `json:"version"`

	// Kind must match the script-declared KindConfig.Kind.
	Kind string `json:"kind"`

	// FieldSelectors, if non-empty, replaces the script's field selectors
	// wholesale.
	// +optional
	FieldSelectors map[string]string `json:"fieldSelectors,omitempty"`

	// LabelSelectors, if non-empty, replaces the script's label selectors
	// wholesale.
	// +optional
	LabelSelectors map[string]string `json:"labelSelectors,omitempty"`

	// RequeueAfterChange, if set, replaces the script's change requeue
	// interval in seconds.
	// +optional
	RequeueAfterChange *int64 `json:"requeueAfterChange,omitempty"`

	// RequeueAfterNoop, if set, replaces the script's noop requeue
	// interval in seconds.
	// +optional
	RequeueAfterNoop *int64 `json:"requeueAfterNoop,omitempty"`
}

// NuOperatorSpec defines the desired child workload for a NuOperator.
type NuOperatorSpec struct {
	// Image overrides the default worker image. Any override is expected
	// to be preloaded on cluster nodes, same as the default.
	// +optional
	Image *string `json:"image,omitempty"`

	// ServiceAccountName is the service account the worker Deployment
	// runs as.
	// +optional
	ServiceAccountName *string `json:"serviceAccountName,omitempty"`

	// Env is appended after the NUOP_MODE variable on every container.
	// +optional
	Env []corev1.EnvVar `json:"env,omitempty"`

	// Sources are fetched by the worker's init phase and materialize a
	// sources ConfigMap plus, for any with credentials, a secret volume.
	// +optional
	Sources []Source `json:"sources,omitempty"`

	// Mappings narrow the set of scripts the worker registers, and
	// materialize a mappings ConfigMap.
	// +optional
	Mappings []Mapping `json:"mappings,omitempty"`
}

// NuOperatorStatus records bookkeeping observed during the last reconcile.
// NuOperator carries no domain status beyond this — reconcile scripts are
// expected to surface their own status by mutating the objects they manage.
type NuOperatorStatus struct {
	// ObservedGeneration is the .metadata.generation last acted on.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Image",type="string",JSONPath=".spec.image",description="Worker image override"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// NuOperator is the Schema for the nuoperators API. Each NuOperator
// materializes one long-lived worker Deployment plus its configuration
// ConfigMaps.
type NuOperator struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NuOperatorSpec   `json:"spec,omitempty"`
	Status NuOperatorStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// NuOperatorList contains a list of NuOperator.
type NuOperatorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []NuOperator `json:"items"`
}

func init() {
	SchemeBuilder.Register(&NuOperator{}, &NuOperatorList{})
}
