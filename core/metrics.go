package core

import "context"

// NopMetricsRecorder is the default MetricsRecorder: sdk operation counters
// and duration histograms are dropped unless the caller wires a real backend
// through WithMetricsRecorder.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}
