// Package metrics exposes the decider's Prometheus counters.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// RegistryProvider owns a private Prometheus registry.
type RegistryProvider struct {
	registry *prometheus.Registry
}

// NewRegistryProvider creates a provider backed by a fresh registry.
func NewRegistryProvider() *RegistryProvider {
	return &RegistryProvider{registry: prometheus.NewRegistry()}
}

// Registry returns the underlying Prometheus registry.
func (p *RegistryProvider) Registry() *prometheus.Registry {
	return p.registry
}

// WriteText writes every gathered family in the text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
