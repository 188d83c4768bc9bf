package measure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ping_requests_total",
		Help: "completed ping requests by outcome",
	}, []string{"outcome"})
	pingRTT = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ping_rtt_milliseconds",
		Help: "last average round trip time in milliseconds",
	}, []string{"target"})
	pingInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ping_inflight",
		Help: "ping requests started but not yet delivered",
	})
	trafficBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "traffic_bytes_total",
		Help: "cumulative interface bytes at the start of the last sample",
	}, []string{"direction"})
	trafficRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "traffic_rate_bytes",
		Help: "bytes per second over the last sample interval",
	}, []string{"direction"})
)

func PingStarted() {
	pingInflight.Inc()
}

// PingFinished records the delivered outcome of one request.
func PingFinished(target string, rtt int64, err error) {
	pingInflight.Dec()
	if err != nil {
		pingRequests.WithLabelValues(KindOf(err).Code()).Inc()
		return
	}
	pingRequests.WithLabelValues("success").Inc()
	pingRTT.WithLabelValues(target).Set(float64(rtt))
}

func ObserveTraffic(rx, tx uint64, rxRate, txRate float64) {
	trafficBytes.WithLabelValues("received").Set(float64(rx))
	trafficBytes.WithLabelValues("sent").Set(float64(tx))
	trafficRate.WithLabelValues("received").Set(rxRate)
	trafficRate.WithLabelValues("sent").Set(txRate)
}
