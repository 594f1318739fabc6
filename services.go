package lludp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/runZeroInc/lludp/pkg/metrics"
	"github.com/runZeroInc/lludp/pkg/texture"
	"github.com/runZeroInc/lludp/pkg/transport"
)

// Services is the central aggregate a caller builds once per simulator
// connection: the texture pipeline, its Prometheus collector and the
// logger they share. Subsystems are handed a *Services (or the narrower
// interface they actually need, e.g. pkg/metrics.StatsSource) rather than
// holding pointers back to a Services they were constructed from, so the
// reference graph stays one-directional.
type Services struct {
	Log     *logrus.Logger
	Texture *texture.Pipeline
	Metrics *metrics.Collector
}

// NewServices wires a Services against an asset cache and a transport, the
// two collaborators pkg/texture is written against (§6). metricsPrefix
// namespaces the series of the collector NewServices builds; constLabels are
// attached to every series (e.g. a simulator region name). NewServices does
// not register the collector with any prometheus.Registerer.
func NewServices(store texture.CacheStore, sender transport.FrameSender, metricsPrefix string, constLabels prometheus.Labels, opts ...texture.Option) *Services {
	log := logrus.StandardLogger()
	opts = append([]texture.Option{texture.WithLogger(log)}, opts...)

	pipeline := texture.NewPipeline(store, sender, opts...)
	collector := metrics.NewCollector(metricsPrefix, pipeline, constLabels)

	return &Services{
		Log:     log,
		Texture: pipeline,
		Metrics: collector,
	}
}

// InFlightCount reports the number of texture requests currently tracked,
// regardless of lifecycle stage (§6 "in_flight_count() -> usize").
func (s *Services) InFlightCount() int {
	return s.Texture.InFlightCount()
}

// Shutdown cancels every in-flight texture request and stops the
// pipeline's background goroutines (§6 "shutdown()").
func (s *Services) Shutdown() {
	s.Texture.Shutdown()
}
