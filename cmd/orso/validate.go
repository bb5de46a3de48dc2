package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reflectivity/orsogo/domain/header"
	"github.com/reflectivity/orsogo/domain/model"
)

var validateResolveModel bool

var validateCmd = &cobra.Command{
	Use:   "validate <header.yaml>",
	Short: "Validate a header document against the ORSO model",
	Long: `Validate builds the typed ORSO header from a YAML document and
reports the first violation with its record type and field path.

Examples:
  orso validate header.yaml
  orso validate header.yaml --resolve-model`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateResolveModel, "resolve-model", false, "also resolve the sample model to layers")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	hdr, err := header.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	logger.Debug().
		Str("sample", hdr.DataSource.Sample.Name).
		Int("columns", len(hdr.Columns)).
		Msg("header built")
	fmt.Printf("%s: valid ORSO header (%d columns)\n", args[0], len(hdr.Columns))

	if !validateResolveModel {
		return nil
	}
	if hdr.DataSource.Sample.Model == nil {
		return fmt.Errorf("header has no sample model")
	}
	layers, err := model.Resolve(hdr.DataSource.Sample.Model)
	if err != nil {
		return fmt.Errorf("resolve sample model: %w", err)
	}
	fmt.Printf("sample model resolves to %d layers\n", len(layers))
	return nil
}
