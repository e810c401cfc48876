package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/catalog"
	"github.com/Geoany/MapWindow5/layer"
	"github.com/Geoany/MapWindow5/loader"
	mwotel "github.com/Geoany/MapWindow5/otel"
	"github.com/Geoany/MapWindow5/registry"
	"github.com/Geoany/MapWindow5/schedule"
)

// NewRunCmd creates the "run" subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Execute a geoprocessing job",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}

	cmd.Flags().String("catalog", "", "Record layer registrations in a SQLite catalog at this path")
	cmd.Flags().Bool("scheduled", false, "Honor the job's cron schedule and keep running")
	cmd.Flags().Bool("otel", false, "Emit OpenTelemetry metrics and traces for runs")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := slog.Default()

	job, err := loadJobArg(args[0])
	if err != nil {
		return err
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	scheduled, _ := cmd.Flags().GetBool("scheduled")
	useOtel, _ := cmd.Flags().GetBool("otel")

	var store catalog.Store
	if catalogPath != "" {
		sqliteStore, err := catalog.NewSQLiteStore(catalogPath)
		if err != nil {
			return exitError(exitRuntime, "opening catalog: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	var emit mapwindow.EventHandler
	if useOtel {
		metrics, err := mwotel.NewMetricsHandler(otelapi.GetMeterProvider().Meter("mapwindow/tool"))
		if err != nil {
			return exitError(exitRuntime, "creating metrics handler: %v", err)
		}
		tracing := mwotel.NewTracingHandler(otelapi.GetTracerProvider().Tracer("mapwindow/tool"))
		emit = mapwindow.MultiEventHandler(metrics.Handle, tracing.Handle)
	}

	execute, err := buildJobRunner(cmd, job, store, emit, logger)
	if err != nil {
		return err
	}

	if !scheduled {
		if !execute() {
			return exitError(exitRuntime, "tool run failed")
		}
		return nil
	}

	if job.Schedule == "" {
		return exitError(exitValidation, "job file has no schedule; cannot run with --scheduled")
	}

	sched := schedule.NewScheduler(logger)
	if _, err := sched.Add(job.Schedule, func() { execute() }); err != nil {
		return exitError(exitValidation, "%s", err)
	}
	sched.Start()
	defer sched.Stop()

	fmt.Fprintf(out, "Running %q on schedule %q; press Ctrl+C to stop.\n", job.ToolName, job.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

// buildJobRunner wires a map session and returns a closure that executes the
// job once against it. Scheduled runs share the session, so recurring jobs
// accumulate layers the way an interactive session would.
func buildJobRunner(
	cmd *cobra.Command,
	job *loader.Job,
	store catalog.Store,
	emit mapwindow.EventHandler,
	logger *slog.Logger,
) (func() bool, error) {
	out := cmd.OutOrStdout()

	collection := layer.NewCollection()
	serviceOpts := []layer.ServiceOption{layer.WithLogger(logger)}
	if store != nil {
		serviceOpts = append(serviceOpts, layer.WithCatalog(store))
	}
	service := layer.NewService(collection, serviceOpts...)

	tc := &mapwindow.ToolContext{
		Layers:       collection,
		Messages:     mapwindow.MessageFunc(func(text string) { fmt.Fprintln(out, text) }),
		LayerService: service,
		Logger:       logger,
	}

	opts := []mapwindow.ControllerOption{}
	if emit != nil {
		opts = append(opts, mapwindow.WithEventHandler(emit))
	}

	ctrl, err := job.NewController(registry.Global(), opts...)
	if err != nil {
		return nil, exitError(exitValidation, "%s", err)
	}
	if err := ctrl.Initialize(tc); err != nil {
		return nil, exitError(exitRuntime, "initializing tool: %v", err)
	}

	return func() bool {
		if !ctrl.Validate() {
			fmt.Fprintln(out, "validation failed")
			return false
		}
		ok, err := ctrl.Run(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "run error: %v\n", err)
			return false
		}
		if ok {
			fmt.Fprintf(out, "Committed output %q (%d layers on map)\n",
				job.Output.DisplayName(), collection.Len())
		} else {
			fmt.Fprintln(out, "tool reported failure")
		}
		return ok
	}, nil
}
