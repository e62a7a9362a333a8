package resources

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
	"github.com/ck3mp3r/nuop/internal/nuopmode"
)

// defaultImagePullPolicy is hardcoded rather than exposed on the NuOperator
// spec: the reconciler image is always expected to already be present on
// the node (built and loaded locally, never pulled from a registry).
const defaultImagePullPolicy = corev1.PullNever

const appLabel = "app"

// HashAnnotation is the pod-template annotation carrying the content hash
// of the artifact bundles, forcing a rollout whenever sources or mappings
// change even though the Deployment's own spec fields stay the same.
const HashAnnotation = "nuop.hash"

// DeploymentMeta is the identity and ownership data for a generated
// Deployment, kept separate from the body-shaping arguments of
// GenerateDeployment so call sites read cleanly.
type DeploymentMeta struct {
	Name               string
	Namespace          string
	OwnerReferences    []metav1.OwnerReference
	ServiceAccountName *string
	Annotations        map[string]string
}

// DeploymentName derives the child Deployment's name from the owning
// NuOperator's name.
func DeploymentName(nuOperatorName string) string {
	return fmt.Sprintf("%s-nuop", nuOperatorName)
}

// GenerateDeployment renders the desired child workload: an optional init
// container (present only when sources are configured) that runs the
// reconciler in "init" mode, and a main container that runs it in "managed"
// mode, sharing one set of mounted volumes.
func GenerateDeployment(meta DeploymentMeta, image string, envVars []corev1.EnvVar, sources []nuopv1alpha1.Source, mappings []nuopv1alpha1.Mapping) *appsv1.Deployment {
	volumes, mounts := GenerateVolumesAndMounts(meta.Name, sources, mappings)

	var initContainers []corev1.Container
	if len(sources) > 0 {
		initContainers = []corev1.Container{
			{
				Name:            "init-container",
				Image:           image,
				ImagePullPolicy: defaultImagePullPolicy,
				VolumeMounts:    mounts,
				Env:             withMode(nuopmode.Init, envVars),
			},
		}
	}

	podAnnotations := map[string]string{}
	if hash, ok := meta.Annotations[HashAnnotation]; ok {
		podAnnotations[HashAnnotation] = hash
	}

	replicas := int32(1)
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:            meta.Name,
			Namespace:       meta.Namespace,
			OwnerReferences: meta.OwnerReferences,
			Annotations:     meta.Annotations,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{appLabel: meta.Name},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      map[string]string{appLabel: meta.Name},
					Annotations: podAnnotations,
				},
				Spec: corev1.PodSpec{
					InitContainers:     initContainers,
					ServiceAccountName: derefString(meta.ServiceAccountName),
					Volumes:            volumes,
					Containers: []corev1.Container{
						{
							Name:            "nureconciler",
							Image:           image,
							ImagePullPolicy: defaultImagePullPolicy,
							Env:             withMode(nuopmode.Managed, envVars),
							VolumeMounts:    mounts,
						},
					},
				},
			},
		},
	}
}

func withMode(mode nuopmode.Mode, envVars []corev1.EnvVar) []corev1.EnvVar {
	out := make([]corev1.EnvVar, 0, len(envVars)+1)
	out = append(out, corev1.EnvVar{Name: nuopmode.EnvVar, Value: mode.String()})
	out = append(out, envVars...)
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GenerateVolumesAndMounts builds the deterministic volume/mount pair
// shared by the init and main containers: scripts emptyDir, sources
// ConfigMap, mappings ConfigMap, then one secret volume per source that
// carries credentials — in that fixed order, so unrelated config changes
// never reorder the list and trip a spurious drift detection.
func GenerateVolumesAndMounts(deploymentName string, sources []nuopv1alpha1.Source, mappings []nuopv1alpha1.Mapping) ([]corev1.Volume, []corev1.VolumeMount) {
	var volumes []corev1.Volume
	var mounts []corev1.VolumeMount

	defaultMode := int32(0644)

	if len(sources) > 0 {
		volumes = append(volumes, corev1.Volume{
			Name:         "scripts",
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: "scripts", MountPath: "/scripts"})

		volumes = append(volumes, corev1.Volume{
			Name: "config-sources",
			VolumeSource: corev1.VolumeSource{ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: SourcesConfigMapName(deploymentName)},
				DefaultMode:          &defaultMode,
			}},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: "config-sources", MountPath: "/config/sources"})
	}

	if len(mappings) > 0 {
		volumes = append(volumes, corev1.Volume{
			Name: "config-mappings",
			VolumeSource: corev1.VolumeSource{ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: MappingConfigMapName(deploymentName)},
				DefaultMode:          &defaultMode,
			}},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: "config-mappings", MountPath: "/config/mappings"})
	}

	for _, source := range sources {
		secretName := credentialSecretName(source.Credentials)
		if secretName == "" {
			continue
		}
		name := slug(source.Path) + "-nuop-secret"
		volumes = append(volumes, corev1.Volume{
			Name: name,
			VolumeSource: corev1.VolumeSource{Secret: &corev1.SecretVolumeSource{
				SecretName:  secretName,
				DefaultMode: &defaultMode,
			}},
		})
		mounts = append(mounts, corev1.VolumeMount{
			Name:      name,
			MountPath: "/secrets/" + source.Path,
			ReadOnly:  true,
		})
	}

	return volumes, mounts
}

// credentialSecretName picks whichever of token/username/password is set
// and returns the Secret name it references. Token takes priority, then
// username, then password — they are expected to name the same Secret.
func credentialSecretName(creds *nuopv1alpha1.Credentials) string {
	if creds == nil {
		return ""
	}
	switch {
	case creds.Token != nil:
		return creds.Token.Name
	case creds.Username != nil:
		return creds.Username.Name
	case creds.Password != nil:
		return creds.Password.Name
	default:
		return ""
	}
}
