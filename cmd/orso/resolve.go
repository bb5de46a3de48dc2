package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reflectivity/orsogo/domain/model"
)

var resolveSubstrateFirst bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <model.yaml>",
	Short: "Resolve a sample model into a concrete layer stack",
	Long: `Resolve expands a sample-model document (the sample.model block of
an ORSO header, or a standalone document of the same shape) into its ordered
list of concrete layers.

Examples:
  orso resolve sample_model.yaml
  orso resolve sample_model.yaml --substrate-first`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolveSubstrateFirst, "substrate-first", false, "list layers substrate first")
}

func runResolve(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	sm, err := model.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid sample model: %w", err)
	}
	logger.Debug().Str("stack", sm.Stack).Msg("model parsed")

	var opts []model.Option
	if resolveSubstrateFirst {
		opts = append(opts, model.WithSubstrateFirst())
	}
	layers, err := model.Resolve(sm, opts...)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	fmt.Printf("%-20s %12s %12s %24s\n", "NAME", "THICKNESS", "ROUGHNESS", "SLD")
	for _, l := range layers {
		fmt.Printf("%-20s %12.4g %12.4g %12.4g %+.4gi\n", l.Name, l.Thickness, l.Roughness, real(l.SLD), imag(l.SLD))
	}
	return nil
}
