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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/restmapper"
	ctrl "sigs.k8s.io/controller-runtime"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	nuopv1alpha1 "github.com/ck3mp3r/nuop/api/v1alpha1"
	"github.com/ck3mp3r/nuop/internal/controller"
	"github.com/ck3mp3r/nuop/internal/nuoplog"
	"github.com/ck3mp3r/nuop/internal/nuopmode"
	"github.com/ck3mp3r/nuop/internal/script"
)

var (
	setupLog = ctrl.Log.WithName("setup")
	scheme   = runtime.NewScheme()
)

type config struct {
	metricsAddr          string
	probeAddr            string
	enableLeaderElection bool
}

var cfg config

var rootCmd = &cobra.Command{
	Use:   "nuop",
	Short: "nuop runs the script-driven reconciliation engine and the NuOperator manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(nuopv1alpha1.AddToScheme(scheme))

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.metricsAddr, "metrics-bind-address", "0", "The address the metrics endpoint binds to. '0' disables it.")
	flags.StringVar(&cfg.probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flags.BoolVar(&cfg.enableLeaderElection, "leader-elect", false, "Enable leader election for the manager controller.")
}

func main() {
	log := nuoplog.Init()
	setupLog = log.WithName("setup")

	if err := rootCmd.Execute(); err != nil {
		setupLog.Error(err, "exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	mode := nuopmode.FromEnv()
	setupLog.Info("starting", "mode", mode.String())

	switch mode {
	case nuopmode.Init:
		setupLog.Info("init mode: nothing to reconcile, exiting")
		return nil
	case nuopmode.Manager:
		return runManager(ctx)
	case nuopmode.Managed:
		return runFleet(ctx, true)
	default:
		return runFleet(ctx, false)
	}
}

// runManager hosts the NuOperator CRD controller through controller-runtime's
// manager, with leader election and a health endpoint like any long-lived
// cluster-scoped controller in this family.
func runManager(ctx context.Context) error {
	restConfig := ctrl.GetConfigOrDie()

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: cfg.metricsAddr},
		HealthProbeBindAddress: cfg.probeAddr,
		LeaderElection:         cfg.enableLeaderElection,
		LeaderElectionID:       "nuop-manager.kemper.buzz",
	})
	if err != nil {
		return fmt.Errorf("creating manager: %w", err)
	}

	if err := (&controller.NuOperatorReconciler{
		Client: mgr.GetClient(),
		Scheme: mgr.GetScheme(),
	}).SetupWithManager(mgr); err != nil {
		return fmt.Errorf("setting up NuOperator controller: %w", err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("setting up health check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("setting up ready check: %w", err)
	}

	setupLog.Info("starting manager")
	return mgr.Start(ctx)
}

// runFleet discovers accepted scripts (optionally overlaid with mappings
// for Managed mode) and runs one independent controller per accepted
// (script, KindConfig) pair until the first one fails.
func runFleet(ctx context.Context, managed bool) error {
	restConfig := ctrl.GetConfigOrDie()

	dynClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("creating dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("creating discovery client: %w", err)
	}
	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(discoveryClient))

	executor := script.ExecExecutor{}
	scripts := script.FindScripts(script.ScriptPath())
	setupLog.Info("discovered scripts", "count", len(scripts))

	var accepted []script.ScriptConfig
	if managed {
		mappingPaths := script.FindMappings(script.MappingsPath())
		mappings := script.LoadMappings(mappingPaths, setupLog)
		accepted = script.DiscoverManaged(ctx, executor, scripts, mappings, setupLog)
	} else {
		accepted = script.DiscoverStandard(ctx, executor, scripts, setupLog)
	}
	setupLog.Info("accepted controllers", "count", len(accepted))

	crClient, err := crclient.New(restConfig, crclient.Options{Scheme: scheme})
	if err != nil {
		return fmt.Errorf("creating cluster client: %w", err)
	}

	fleet := &script.Fleet{}
	for _, sc := range accepted {
		sc := sc
		reconciler := &script.ScriptReconciler{
			Client:   &script.ClientAdapter{Client: crClient, GVK: sc.Config.GVK()},
			Config:   sc.Config,
			Script:   sc.Script,
			Executor: executor,
		}
		namespace := ""
		if sc.Config.Namespace != nil {
			namespace = *sc.Config.Namespace
		}
		fleet.Controllers = append(fleet.Controllers, &script.Controller{
			Name:          sc.Config.Kind,
			Reconciler:    reconciler,
			GVK:           sc.Config.GVK(),
			Namespace:     namespace,
			LabelSelector: sc.Config.LabelSelector(),
			FieldSelector: sc.Config.FieldSelector(),
			Dynamic:       dynClient,
			RESTMapper:    mapper,
			Log:           setupLog.WithName(sc.Config.Kind),
		})
	}

	if len(fleet.Controllers) == 0 {
		setupLog.Info("no controllers accepted, exiting")
		return nil
	}

	return fleet.Run(ctx)
}
