package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dbn/gen"
	"github.com/katalvlaran/dbn/model"
)

// GenOptions holds flags shared by the gen subcommands.
type GenOptions struct {
	*RootOptions
	Seed int64
}

// genResult lists the files a gen subcommand wrote.
type genResult struct {
	Files []string `json:"files"`
}

func (r *genResult) String() string {
	return strings.Join(r.Files, "\n")
}

// NewGenCommand creates the gen command group.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate benchmark models",
		Long: `Generate synthetic models: dynamic circuit-diagnosis networks with a
matching observation stream, and static Markov chains and grids.`,
	}

	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", gen.DefaultSeed, "random seed")

	cmd.AddCommand(newGenCircuitCommand(opts))
	cmd.AddCommand(newGenGridCommand(opts))

	return cmd
}

func newGenCircuitCommand(opts *GenOptions) *cobra.Command {
	var (
		inputs, gates, health, steps int
		yamlOut                      bool
	)

	cmd := &cobra.Command{
		Use:   "circuit <prefix>",
		Short: "Generate a circuit-diagnosis DBAYES model and observations",
		Long: `Write <prefix>.duai and <prefix>.duai.evid (or <prefix>.yaml and
<prefix>.obs.yaml with --yaml).

Example:
  dbn gen circuit bench --inputs 5 --gates 20 --health 5 --observations 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, obs, err := gen.Circuit(inputs, gates, health,
				gen.WithSeed(opts.Seed), gen.WithObservations(steps))
			if err != nil {
				return WrapExitError(ExitUsage, "invalid circuit size", err)
			}
			modelPath := args[0] + model.ExtDUAI
			evidencePath := modelPath + model.ExtEvidence
			if yamlOut {
				modelPath = args[0] + model.ExtYAML
				evidencePath = args[0] + ".obs" + model.ExtYAML
			}
			if err := model.SaveModel(modelPath, m); err != nil {
				return WrapExitError(ExitFailure, "failed to write model", err)
			}
			if err := model.SaveObservations(evidencePath, obs); err != nil {
				return WrapExitError(ExitFailure, "failed to write observations", err)
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(&genResult{Files: []string{modelPath, evidencePath}})
		},
	}

	cmd.Flags().IntVar(&inputs, "inputs", 3, "number of circuit inputs")
	cmd.Flags().IntVar(&gates, "gates", 5, "number of gates")
	cmd.Flags().IntVar(&health, "health", 2, "number of health variables")
	cmd.Flags().IntVar(&steps, "observations", gen.DefaultObservations, "number of observation steps")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "write YAML instead of DUAI/evid")

	return cmd
}

func newGenGridCommand(opts *GenOptions) *cobra.Command {
	var rows, cols, card int

	cmd := &cobra.Command{
		Use:   "grid <path>",
		Short: "Generate a MARKOV grid (a chain with --rows 1)",
		Long: `Write a pairwise Markov network over a rows×cols lattice. The format
follows the extension of <path> (.uai, .yaml).

Example:
  dbn gen grid grid.uai --rows 4 --cols 4 --card 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if card < 1 {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid cardinality %d", card))
			}
			m, err := gen.Grid(rows, cols, gen.WithSeed(opts.Seed), gen.WithCardinality(card))
			if err != nil {
				return WrapExitError(ExitUsage, "invalid grid size", err)
			}
			if err := model.SaveModel(args[0], m); err != nil {
				return WrapExitError(ExitFailure, "failed to write model", err)
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(&genResult{Files: []string{args[0]}})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 3, "grid rows")
	cmd.Flags().IntVar(&cols, "cols", 3, "grid columns")
	cmd.Flags().IntVar(&card, "card", gen.DefaultCardinality, "variable cardinality")

	return cmd
}
