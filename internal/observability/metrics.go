package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	atomsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdowire",
			Subsystem: "codec",
			Name:      "atoms_decoded_total",
			Help:      "Atoms decoded, by header compression mode.",
		},
		[]string{"mode"},
	)
	unknownAtoms = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fdowire",
			Subsystem: "codec",
			Name:      "unknown_atoms_total",
			Help:      "Decoded atoms with no registry entry.",
		},
	)
	atomsEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdowire",
			Subsystem: "codec",
			Name:      "atoms_encoded_total",
			Help:      "Atoms encoded, by data type.",
		},
		[]string{"data_type"},
	)
	degradedArguments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdowire",
			Subsystem: "codec",
			Name:      "degraded_arguments_total",
			Help:      "Arguments written as empty payloads after a shape mismatch.",
		},
		[]string{"data_type"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdowire",
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Failed encode and decode calls.",
		},
		[]string{"op", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(atomsDecoded, unknownAtoms, atomsEncoded, degradedArguments, codecErrors)
	})
}

func RecordAtomDecoded(mode string) {
	RegisterMetrics()
	atomsDecoded.WithLabelValues(mode).Inc()
}

func RecordUnknownAtom() {
	RegisterMetrics()
	unknownAtoms.Inc()
}

func RecordAtomEncoded(dataType string) {
	RegisterMetrics()
	atomsEncoded.WithLabelValues(dataType).Inc()
}

func RecordDegradedArgument(dataType string) {
	RegisterMetrics()
	degradedArguments.WithLabelValues(dataType).Inc()
}

func RecordCodecError(op, kind string) {
	RegisterMetrics()
	codecErrors.WithLabelValues(op, kind).Inc()
}
