package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dbn/filter"
	"github.com/katalvlaran/dbn/model"
)

// FilterOptions holds flags for the root (filtering) command.
type FilterOptions struct {
	*RootOptions
	Methods string // digits of the methods to run, in order
	State   []int  // state variable override
}

// filterArgs requires exactly a model path and an evidence path.
func filterArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return NewExitError(ExitUsage, fmt.Sprintf("expected <model> <evidence>, got %d argument(s); see --help", len(args)))
	}
	return nil
}

// parseMethods resolves a digit string such as "23"; repeated digits run once.
func parseMethods(s string) ([]filter.Method, error) {
	if s == "" {
		return nil, NewExitError(ExitUsage, "no filtering method selected")
	}
	var methods []filter.Method
	seen := make(map[filter.Method]bool)
	for _, r := range s {
		m, err := filter.ParseMethod(string(r))
		if err != nil {
			return nil, WrapExitError(ExitUsage, "invalid method", err)
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	return methods, nil
}

func runFilter(opts *FilterOptions, modelPath, evidencePath string, cmd *cobra.Command) error {
	methods, err := parseMethods(opts.Methods)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	// Load model
	start := time.Now()
	m, err := model.LoadModel(modelPath)
	if err != nil {
		return WrapExitError(ExitModel, "failed to load model", err)
	}
	if m.Kind != model.Dynamic {
		return WrapExitError(ExitModel, "failed to load model",
			fmt.Errorf("%s model cannot be filtered (use dbn marginal): %w", m.Kind, model.ErrUnsupportedKind))
	}
	logger.Info("model loaded", "path", modelPath, "kind", m.Kind,
		"variables", m.Arena.Len(), "factors", len(m.Factors), "elapsed", time.Since(start))

	// Load evidence
	start = time.Now()
	obs, err := model.LoadObservations(evidencePath)
	if err != nil {
		return WrapExitError(ExitEvidence, "failed to load evidence", err)
	}
	if err := obs.Validate(m); err != nil {
		return WrapExitError(ExitEvidence, "evidence does not fit the model", err)
	}
	logger.Info("evidence loaded", "path", evidencePath, "steps", obs.Len(), "elapsed", time.Since(start))

	fopts := []filter.Option{filter.WithLogger(logger)}
	if cmd.Flags().Changed("state") {
		fopts = append(fopts, filter.WithStateVariables(opts.State...))
	}

	report := newFilterReport(modelPath, evidencePath, m, obs)
	for _, method := range methods {
		start = time.Now()
		res, err := filter.Run(m, obs, method, fopts...)
		switch {
		case errors.Is(err, filter.ErrUnknownStateVariable):
			return WrapExitError(ExitUsage, "invalid state variables", err)
		case errors.Is(err, filter.ErrNoSteps):
			return WrapExitError(ExitEvidence, "failed to load evidence", err)
		case err != nil:
			return WrapExitError(ExitFailure, fmt.Sprintf("%s filtering failed", method), err)
		}
		logger.Info("filtered", "method", method, "steps", len(res.Steps), "elapsed", time.Since(start))
		if err := report.add(res); err != nil {
			return WrapExitError(ExitFailure, "failed to build report", err)
		}
	}
	report.compare(logger)

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(report)
}
