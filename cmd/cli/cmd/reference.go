// Package cmd - reference commands
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	hclref "election-check/adapters/reference/hcl"
	"election-check/core/reference"
	"election-check/core/ui"
	"election-check/internal/config"
)

var showJSON bool

// referenceCmd groups the reference configuration commands
var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Inspect the reference configuration",
	Long: `Inspect and check the reference configuration: candidate rosters,
pollster, method and population whitelists and valid periods.`,
}

var referenceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the reference configuration of an election",
	RunE:  runReferenceShow,
}

var referenceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every election of the reference file and report problems",
	RunE:  runReferenceCheck,
}

func init() {
	referenceCmd.PersistentFlags().StringVarP(&referenceFile, "reference", "r", "", "reference configuration file (.hcl or .json)")
	referenceShowCmd.Flags().StringVarP(&electionName, "election", "e", "", "election to show")
	referenceShowCmd.Flags().BoolVar(&showJSON, "json", false, "print as JSON")

	referenceCmd.AddCommand(referenceShowCmd)
	referenceCmd.AddCommand(referenceCheckCmd)
}

func loadCatalog(cmd *cobra.Command) (*reference.Catalog, string, error) {
	cfg := config.Get()
	path := cfg.Reference.File
	if cmd.Flags().Changed("reference") {
		path = referenceFile
	}
	catalog, err := hclref.LoadFile(path)
	return catalog, path, err
}

func runReferenceShow(cmd *cobra.Command, args []string) error {
	catalog, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	name := config.Get().Reference.Election
	if cmd.Flags().Changed("election") {
		name = electionName
	}
	ref, err := catalog.Resolve(name)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ref)
	}

	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	w.Header(ref.Name)
	w.Println("Period:           %s to %s", ref.Period.Start, ref.Period.End)
	w.Println("Intention ceiling: %s", ref.IntentionCeiling.String())
	lists := []struct {
		title string
		names []string
	}{
		{"Candidates", ref.Candidates.Names()},
		{"Pollsters", ref.Pollsters.Names()},
		{"Methods", ref.Methods.Names()},
		{"Populations", ref.Populations.Names()},
		{"Bases", ref.Bases.Names()},
	}
	for _, l := range lists {
		w.Println("")
		w.SubHeader(fmt.Sprintf("%s (%d)", l.title, len(l.names)))
		for _, n := range l.names {
			w.Println("  %s", n)
		}
	}
	return nil
}

func runReferenceCheck(cmd *cobra.Command, args []string) error {
	catalog, path, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	table := w.NewTable("Election", "Candidates", "Pollsters", "Period")
	for _, name := range catalog.Names() {
		ref, _ := catalog.Get(name)
		table.AddRow(name,
			fmt.Sprint(ref.Candidates.Len()),
			fmt.Sprint(ref.Pollsters.Len()),
			fmt.Sprintf("%s → %s", ref.Period.Start, ref.Period.End))
	}
	table.Render()
	w.Println("")
	w.Success("%s defines %d valid elections", path, catalog.Len())
	return nil
}
