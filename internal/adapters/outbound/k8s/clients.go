package k8s

import (
	"fmt"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"
)

// Clients groups the API clients the cluster source reads from.
type Clients struct {
	Core    kubernetes.Interface
	Dynamic dynamic.Interface
	Metrics metricsv.Interface
}

// NewClients builds clients from a kubeconfig. Empty arguments fall back to
// the default loading chain and its current context.
func NewClients(kubeconfig, master, contextName string) (*Clients, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	if master != "" {
		overrides.ClusterInfo.Server = master
	}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildConfig, err)
	}

	core, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	metrics, err := metricsv.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("create metrics clientset: %w", err)
	}

	return &Clients{Core: core, Dynamic: dyn, Metrics: metrics}, nil
}
