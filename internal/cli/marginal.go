package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dbn/elimination"
	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/interaction"
	"github.com/katalvlaran/dbn/model"
)

// MarginalOptions holds flags for the marginal command.
type MarginalOptions struct {
	*RootOptions
	Query   []int
	Backend string
}

// NewMarginalCommand creates the marginal command.
func NewMarginalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarginalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "marginal <model>",
		Short: "Compute the partition function and a marginal by variable elimination",
		Long: `Multiply every table of the model and eliminate all variables outside
--query in min-fill order. Prints the order, its induced width, the
partition function Z and the normalized marginal over the query.

Example:
  dbn marginal network.uai --query 1
  dbn marginal grid.uai --backend sparse --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarginal(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.Query, "query", "q", nil, "query variable ids (default: none, Z only)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "dense", "table representation (dense|sparse)")

	return cmd
}

func runMarginal(opts *MarginalOptions, path string, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	backend, err := factor.BackendByName(opts.Backend)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid backend", err)
	}

	m, err := model.LoadModel(path)
	if err != nil {
		return WrapExitError(ExitModel, "failed to load model", err)
	}
	query, err := m.Arena.Lookup(opts.Query)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid query", err)
	}

	tables := m.Tables()
	order := elimination.MinFillOrder(tables, query)
	width := interaction.New(tables).InducedWidth(order)
	logger.Info("order", "variables", len(order), "induced_width", width)

	var stats elimination.Stats
	start := time.Now()
	joint, err := elimination.Eliminate(tables, order, query,
		elimination.WithLogger(logger), elimination.WithBackend(backend), elimination.WithStats(&stats))
	if err != nil {
		return WrapExitError(ExitFailure, "elimination failed", err)
	}
	logger.Info("eliminated", "backend", backend.Name(), "products", stats.Products,
		"max_table_size", stats.MaxTableSize, "elapsed", time.Since(start))

	report := &marginalReport{
		Model:        filepath.Base(path),
		Kind:         string(m.Kind),
		Variables:    m.Arena.Len(),
		Factors:      len(m.Factors),
		Order:        factor.IDs(order),
		InducedWidth: width,
		MaxTableSize: stats.MaxTableSize,
		Z:            joint.Partition(),
	}
	if len(query) > 0 {
		norm, err := joint.Normalize()
		if errors.Is(err, factor.ErrDegenerateDistribution) {
			return WrapExitError(ExitFailure, fmt.Sprintf("Z = %s", formatFloat(report.Z)), err)
		}
		if err != nil {
			return WrapExitError(ExitFailure, "normalization failed", err)
		}
		if norm, err = coverQuery(norm, query); err != nil {
			return WrapExitError(ExitFailure, "failed to build marginal", err)
		}
		report.Scope = factor.IDs(norm.Domain().Scope())
		report.Marginal = norm.Values()
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(report)
}

// coverQuery extends t uniformly over the query variables that appear in no
// table, then lays it out in query order.
func coverQuery(t factor.Table, query []factor.Variable) (factor.Table, error) {
	var isolated []factor.Variable
	for _, v := range query {
		if !t.InScope(v) {
			isolated = append(isolated, v)
		}
	}
	if len(isolated) == 0 {
		return t, nil
	}
	dom, err := factor.NewDomain(isolated...)
	if err != nil {
		return nil, err
	}
	out, err := t.Product(factor.Constant(dom, 1.0/float64(dom.Size())))
	if err != nil {
		return nil, err
	}

	return factor.Permute(out, query)
}
