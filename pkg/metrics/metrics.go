package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the app service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	presenceWrites *prometheus.CounterVec
	postEdits      *prometheus.CounterVec
	pushRouted     *prometheus.CounterVec
	lifecycle      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		presenceWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agristock",
			Name:      "presence_writes_total",
			Help:      "Presence field writes by online value and result.",
		}, []string{"online", "result"}),
		postEdits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agristock",
			Name:      "post_edits_total",
			Help:      "Post edits by whether an image was uploaded and result.",
		}, []string{"with_image", "result"}),
		pushRouted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agristock",
			Name:      "push_routed_total",
			Help:      "Inbound push messages by local channel and result.",
		}, []string{"channel", "result"}),
		lifecycle: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agristock",
			Name:      "lifecycle_events_total",
			Help:      "Lifecycle events published to app instances.",
		}, []string{"event"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) PresenceWrite(online bool, err error) {
	if m == nil {
		return
	}
	m.presenceWrites.WithLabelValues(strconv.FormatBool(online), result(err)).Inc()
}

func (m *Metrics) PostEdit(withImage bool, err error) {
	if m == nil {
		return
	}
	m.postEdits.WithLabelValues(strconv.FormatBool(withImage), result(err)).Inc()
}

func (m *Metrics) PushRouted(channel string, err error) {
	if m == nil {
		return
	}
	m.pushRouted.WithLabelValues(channel, result(err)).Inc()
}

func (m *Metrics) LifecycleEvent(event string) {
	if m == nil {
		return
	}
	m.lifecycle.WithLabelValues(event).Inc()
}
