package otel

import (
	"context"
	"errors"
	"fmt"

	goSecurity "github.com/MrEthical07/goSecurity"
	"github.com/MrEthical07/goSecurity/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goSecurity.MetricsSnapshot
	AuditDropped() uint64
}

type counterInstrument struct {
	id  goSecurity.MetricID
	obs metric.Int64ObservableCounter
}

// latencyInstrument flattens one histogram into a cumulative bucket gauge
// keyed by an "le" attribute, plus a sample count.
type latencyInstrument struct {
	id      goSecurity.MetricID
	buckets metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// Exporter publishes Manager metrics through OpenTelemetry observable
// instruments. Values are pulled from the source on each collection.
type Exporter struct {
	source       metricsSource
	registration metric.Registration

	counters     []counterInstrument
	latencies    []latencyInstrument
	auditDropped metric.Int64ObservableCounter
	bucketSets   []metric.MeasurementOption
}

// NewExporter registers instruments on meter that read from manager.
func NewExporter(meter metric.Meter, manager *goSecurity.Manager) (*Exporter, error) {
	if manager == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, manager)
}

// NewExporterFromSource is NewExporter for any snapshot source.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}
	for _, label := range internaldefs.BucketLabels() {
		e.bucketSets = append(e.bucketSets, metric.WithAttributes(attribute.String("le", label)))
	}

	var observables []metric.Observable
	add := func(o metric.Observable) { observables = append(observables, o) }

	if err := e.registerCounters(meter, add); err != nil {
		return nil, err
	}
	if err := e.registerLatencies(meter, add); err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *Exporter) registerCounters(meter metric.Meter, add func(metric.Observable)) error {
	for _, def := range internaldefs.CounterDefs {
		obs, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return fmt.Errorf("counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, counterInstrument{id: def.ID, obs: obs})
		add(obs)
	}

	dropped, err := meter.Int64ObservableCounter(internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp))
	if err != nil {
		return fmt.Errorf("counter %s: %w", internaldefs.AuditDroppedName, err)
	}
	e.auditDropped = dropped
	add(dropped)
	return nil
}

func (e *Exporter) registerLatencies(meter metric.Meter, add func(metric.Observable)) error {
	for _, def := range internaldefs.HistogramDefs {
		buckets, err := meter.Int64ObservableGauge(def.Name+"_bucket",
			metric.WithDescription(def.Help+" Cumulative count per upper bound."))
		if err != nil {
			return fmt.Errorf("gauge %s_bucket: %w", def.Name, err)
		}
		count, err := meter.Int64ObservableGauge(def.Name+"_count",
			metric.WithDescription(def.Help+" Total samples."))
		if err != nil {
			return fmt.Errorf("gauge %s_count: %w", def.Name, err)
		}
		e.latencies = append(e.latencies, latencyInstrument{id: def.ID, buckets: buckets, count: count})
		add(buckets)
		add(count)
	}
	return nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()

	for _, c := range e.counters {
		o.ObserveInt64(c.obs, int64(snap.Counters[c.id]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))

	for _, l := range e.latencies {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snap.Histograms[l.id]))
		for i, v := range cumulative {
			o.ObserveInt64(l.buckets, int64(v), e.bucketSets[i])
		}
		o.ObserveInt64(l.count, int64(cumulative[len(cumulative)-1]))
	}
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
