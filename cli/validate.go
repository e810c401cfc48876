package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/layer"
	"github.com/Geoany/MapWindow5/loader"
	"github.com/Geoany/MapWindow5/registry"
)

// NewValidateCmd creates the "validate" subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <job.yaml>",
		Short: "Validate a job file without executing the tool",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	job, err := loadJobArg(args[0])
	if err != nil {
		return err
	}

	ctrl, err := job.NewController(registry.Global())
	if err != nil {
		return exitError(exitValidation, "%s", err)
	}

	// A throwaway session: validation needs services but must not touch
	// any real map state.
	collection := layer.NewCollection()
	tc := &mapwindow.ToolContext{
		Layers:       collection,
		Messages:     mapwindow.MessageFunc(func(text string) { fmt.Fprintln(out, text) }),
		LayerService: layer.NewService(collection),
	}
	if err := ctrl.Initialize(tc); err != nil {
		return exitError(exitRuntime, "initializing tool: %v", err)
	}

	if !ctrl.Validate() {
		return exitError(exitValidation, "validation failed")
	}

	fmt.Fprintln(out, "Valid!")
	return nil
}

// loadJobArg loads the job file argument with CLI-grade error mapping.
func loadJobArg(path string) (*loader.Job, error) {
	job, err := loader.LoadJob(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exitError(exitFileNotFound, "file not found: %s", path)
		}
		return nil, exitError(exitInputParse, "%s", err)
	}
	return job, nil
}
