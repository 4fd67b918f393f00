package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveBalanceQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveBalanceQuery(3, nil)
	m.ObserveBalanceQuery(0, nil)
	m.ObserveBalanceQuery(0, errors.New("boom"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	counts := map[string]float64{}
	var histogramCount uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "splitledger_balance_queries_total":
			for _, metric := range mf.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "outcome" {
						counts[label.GetValue()] = metric.GetCounter().GetValue()
					}
				}
			}
		case "splitledger_settlements_per_plan":
			histogramCount = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}

	if counts["ok"] != 2 || counts["error"] != 1 {
		t.Errorf("unexpected outcome counts: %v", counts)
	}
	if histogramCount != 2 {
		t.Errorf("expected 2 histogram samples, got %d", histogramCount)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveBalanceQuery(1, nil)
}
