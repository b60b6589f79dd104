package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPricingMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPricingMetrics(reg)

	metrics.ObserveDuration("get", 250*time.Millisecond)
	metrics.IncRevalidation(OutcomeSuccess)
	metrics.IncRevalidation(OutcomeSuccess)
	metrics.AddItemStatus("modified", 3)
	metrics.AddItemStatus("unavailable", 0)
	metrics.IncBlocked("below_minimum")
	metrics.IncBreakerTransition("menu", "open")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_revalidations_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch revalidations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected revalidations=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_item_status_total", "status", "modified"); err != nil {
		t.Fatalf("fetch item status: %v", err)
	} else if got != 3 {
		t.Fatalf("expected modified=3, got %f", got)
	}

	if _, err := fetchCounterValue(mfs, "cart_item_status_total", "status", "unavailable"); err == nil {
		t.Fatal("zero additions should not create a series")
	}

	if got, err := fetchCounterValue(mfs, "cart_blocked_total", "reason", "below_minimum"); err != nil {
		t.Fatalf("fetch blocked: %v", err)
	} else if got != 1 {
		t.Fatalf("expected blocked=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upstream_breaker_transitions_total", "to", "open"); err != nil {
		t.Fatalf("fetch breaker: %v", err)
	} else if got != 1 {
		t.Fatalf("expected breaker transitions=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "cart_operation_duration_seconds", "operation", "get"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var metrics *PricingMetrics
	metrics.IncRevalidation(OutcomeSuccess)
	metrics.ObserveDuration("get", time.Second)

	unregistered := NewPricingMetrics(nil)
	unregistered.IncBlocked("empty_cart")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
