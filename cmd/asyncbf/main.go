// Command asyncbf runs the asynchronous distributed Bellman-Ford
// simulator against a connectivity file and, once every process has
// terminated, prints each non-source process's elected parent and
// distance and a completion line for the source, in process-ID order.
// Lines are not printed as individual processes terminate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/distsim/asyncbf/bf"
	"github.com/distsim/asyncbf/bf/emit"
	"github.com/distsim/asyncbf/bf/store"
	"github.com/distsim/asyncbf/internal/parser"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("asyncbf", flag.ContinueOnError)
	delayMin := fs.Int("delay-min", 1, "minimum per-message channel delay (inclusive)")
	delayMax := fs.Int("delay-max", 15, "maximum per-message channel delay (inclusive)")
	seed := fs.Int64("seed", 0, "RNG seed; 0 means derive one from the current time")
	jsonLog := fs.Bool("json", false, "emit JSON-lines logging instead of text")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus /metrics on this address")
	storeFlag := fs.String("store", "memory", `diagnostic run-history store: "memory", "sqlite:PATH", or "mysql:DSN"`)
	otelEndpoint := fs.String("otel-endpoint", "", "if set, trace spans via an OpenTelemetry SDK TracerProvider")
	maxRounds := fs.Int("max-rounds", 0, "diagnostic safety cap on round count; 0 means no cap")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: asyncbf [flags] <connectivity-file>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("asyncbf: opening %s: %w", fs.Arg(0), err)
	}
	defer func() { _ = f.Close() }()

	matrix, root, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("asyncbf: %w", err)
	}

	logEmitter := emit.NewLogEmitter(os.Stdout, *jsonLog)
	var emitter emit.Emitter = logEmitter

	if *otelEndpoint != "" {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		defer func() { _ = tp.Shutdown(context.Background()) }()
		log.Printf("asyncbf: tracing spans locally via the OpenTelemetry SDK; exporting to %q requires wiring an OTLP exporter dependency not included in this build", *otelEndpoint)
		emitter = &multiEmitter{inner: []emit.Emitter{logEmitter, emit.NewOTelEmitter(otel.Tracer("asyncbf"))}}
	}

	var metrics *bf.Metrics
	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		metrics = bf.NewMetrics(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("asyncbf: metrics server: %v", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	runStore, err := openStore(*storeFlag)
	if err != nil {
		return fmt.Errorf("asyncbf: %w", err)
	}
	defer func() { _ = runStore.Close() }()

	opts := []bf.Option{
		bf.WithDelayRange(*delayMin, *delayMax),
		bf.WithEmitter(emitter),
		bf.WithRunStore(runStore),
	}
	if *seed != 0 {
		opts = append(opts, bf.WithSeed(*seed))
	} else {
		opts = append(opts, bf.WithSeed(time.Now().UnixNano()))
	}
	if metrics != nil {
		opts = append(opts, bf.WithMetrics(metrics))
	}
	if *maxRounds > 0 {
		opts = append(opts, bf.WithMaxRounds(*maxRounds))
	}

	driver, err := bf.NewDriver(matrix, root, fs.Arg(0), opts...)
	if err != nil {
		return fmt.Errorf("asyncbf: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("asyncbf: %w", err)
	}

	for pid := bf.ProcessID(1); int(pid) <= len(matrix); pid++ {
		if pid == root {
			fmt.Printf("source proc %d completed: spanning tree fully formed\n", pid)
			continue
		}
		fmt.Printf("parent = %d dist = %v\n", result.Parent[pid], result.Dist[pid])
	}
	return nil
}

// openStore parses the -store flag: "memory", "sqlite:PATH", or "mysql:DSN".
func openStore(spec string) (store.RunStore, error) {
	switch {
	case spec == "" || spec == "memory":
		return store.NewMemoryStore(), nil
	case strings.HasPrefix(spec, "sqlite:"):
		return store.NewSQLiteStore(strings.TrimPrefix(spec, "sqlite:"))
	case strings.HasPrefix(spec, "mysql:"):
		return store.NewMySQLStore(strings.TrimPrefix(spec, "mysql:"))
	default:
		return nil, fmt.Errorf("unrecognized -store value %q", spec)
	}
}

// multiEmitter fans a single Event out to every inner Emitter, used when
// both text/JSON logging and OpenTelemetry tracing are active.
type multiEmitter struct {
	inner []emit.Emitter
}

func (m *multiEmitter) Emit(e emit.Event) {
	for _, inner := range m.inner {
		inner.Emit(e)
	}
}

func (m *multiEmitter) EmitBatch(ctx context.Context, events []emit.Event) error {
	for _, inner := range m.inner {
		if err := inner.EmitBatch(ctx, events); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiEmitter) Flush(ctx context.Context) error {
	for _, inner := range m.inner {
		if err := inner.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}
