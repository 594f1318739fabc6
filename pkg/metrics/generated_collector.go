// Code generated by cmd/metrics-gen from pkg/texture/pipeline.go's Stats
// struct tags. DO NOT EDIT.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/runZeroInc/lludp/pkg/texture"
)

// describeGenerated sends the per-field metric descriptors built from
// prefix and constLabels.
func describeGenerated(prefix string, constLabels prometheus.Labels, out chan<- *prometheus.Desc) {
	out <- prometheus.NewDesc(prefix+"_bytes_transferred_total", "Total bytes of texture data received across completed transfers.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_finished_total", "Total texture requests that finished successfully.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_timed_out_total", "Total texture requests finalized by the refresh sweep timeout.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_aborted_total", "Total texture requests cancelled via AbortTexture.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_not_found_total", "Total texture requests the simulator reported as not in its database.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_cache_hits_total", "Total RequestTexture calls satisfied directly from the asset cache.", nil, constLabels)
	out <- prometheus.NewDesc(prefix+"_cache_misses_total", "Total RequestTexture calls that missed the asset cache.", nil, constLabels)
}

// collectGenerated emits one metric per Stats field tagged with `tcpi`.
func collectGenerated(prefix string, constLabels prometheus.Labels, stats texture.Stats, out chan<- prometheus.Metric) {
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_bytes_transferred_total", "Total bytes of texture data received across completed transfers.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.BytesTransferred),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_finished_total", "Total texture requests that finished successfully.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.Finished),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_timed_out_total", "Total texture requests finalized by the refresh sweep timeout.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.TimedOut),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_aborted_total", "Total texture requests cancelled via AbortTexture.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.Aborted),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_not_found_total", "Total texture requests the simulator reported as not in its database.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.NotFound),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_cache_hits_total", "Total RequestTexture calls satisfied directly from the asset cache.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.CacheHits),
	)
	out <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(prefix+"_cache_misses_total", "Total RequestTexture calls that missed the asset cache.", nil, constLabels),
		prometheus.CounterValue,
		float64(stats.CacheMisses),
	)
}
