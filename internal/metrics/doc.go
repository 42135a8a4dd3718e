// Package metrics records run, stage and page metrics for plugindocs.
//
// Components take a Recorder and default to NoopRecorder. When a textfile
// path is configured the CLI injects a PrometheusRecorder and writes its
// registry with prometheus.WriteToTextfile at the end of the run, for
// pickup by the node_exporter textfile collector.
package metrics
