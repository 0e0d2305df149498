// Package cmd - validate command
package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hclref "election-check/adapters/reference/hcl"
	"election-check/core/batch"
	"election-check/core/input"
	"election-check/core/metrics"
	"election-check/core/output"
	"election-check/core/reference"
	"election-check/core/ui"
	"election-check/core/validate"
	"election-check/internal/config"
	"election-check/internal/errors"
	"election-check/internal/logging"
)

var (
	datasetKind   string
	electionName  string
	referenceFile string
	workers       int
	outputFormat  string
	metricsFile   string
	noColor       bool
	showProgress  bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [files or directories...]",
	Short: "Validate poll or results datasets",
	Long: `Validate dataset documents and stop at the first rejected record.

Directories are searched for .json documents. Without arguments the datasets
listed in the configuration file are validated. Poll documents may carry
their own candidate roster ({"candidats": [...], "sondages": {...}}), which
then replaces the roster of the reference configuration.

Examples:
  election-check validate sondages/presidentielle-2022.json
  election-check validate --election presidentielle-2017 --workers 8 sondages/
  election-check validate --kind results --format json resultats/`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&datasetKind, "kind", "k", "auto", "dataset kind (polls, results, auto)")
	validateCmd.Flags().StringVarP(&electionName, "election", "e", "", "election of the reference configuration")
	validateCmd.Flags().StringVarP(&referenceFile, "reference", "r", "", "reference configuration file (.hcl or .json)")
	validateCmd.Flags().IntVarP(&workers, "workers", "w", 0, "records validated in parallel (default from config)")
	validateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	validateCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	validateCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	validateCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar across documents")
}

// dataset is a document to validate and the election it belongs to
type dataset struct {
	path     string
	kind     input.DatasetKind
	election string
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := applyValidateFlags(cmd, config.Get())

	datasets, err := collectDatasets(cfg, args)
	if err != nil {
		return err
	}

	formatter, err := output.NewRegistry(
		output.CLIFormatter{NoColor: cfg.Output.NoColor, Language: cfg.Output.Language},
		output.JSONFormatter{},
	).Get(output.Format(cfg.Output.Format))
	if err != nil {
		return err
	}

	w := ui.NewWriter(os.Stderr, cfg.Output.NoColor)
	if verbose {
		w.SetVerbosity(2)
	}

	groups, err := loadGroups(datasets, w)
	if err != nil {
		return err
	}

	var catalog *reference.Catalog
	m := metrics.New()
	runner := ui.NewValidationRunner(w, showProgress && cfg.Output.Format == string(output.FormatCLI))

	report := &output.Report{Version: Version}
	var elections []string
	for _, g := range groups {
		var ref *reference.Config
		if g.needsReference() {
			if catalog == nil {
				if catalog, err = hclref.LoadFile(cfg.Reference.File); err != nil {
					return err
				}
				w.Info("Reference %s: %d elections", cfg.Reference.File, catalog.Len())
				logging.Info("reference loaded",
					zap.String("file", cfg.Reference.File),
					zap.Strings("elections", catalog.Names()))
			}
			if ref, err = catalog.Resolve(g.election); err != nil {
				return err
			}
			elections = append(elections, ref.Name)
		}

		summary, err := runner.Run(ctx, ref, batch.Options{
			Workers: cfg.Validation.Workers,
			Metrics: m,
			Logger:  logging.Logger,
		}, g.docs)
		if err != nil {
			return err
		}
		report.Summary = merge(report.Summary, summary)
		if summary.Failure != nil {
			break
		}
	}
	report.Election = strings.Join(elections, ", ")

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			w.Warning("metrics not written to %s: %v", cfg.Metrics.Textfile, err)
			logging.Warn("metrics not written", zap.String("file", cfg.Metrics.Textfile), zap.Error(err))
		}
	}

	if err := formatter.Render(cmd.OutOrStdout(), report); err != nil {
		logging.Error("report not rendered", zap.String("format", cfg.Output.Format), zap.Error(err))
		return errors.Wrap(errors.KindInternal, "failed to render report", err)
	}
	if !report.Accepted() {
		return ErrRejected
	}
	return nil
}

func applyValidateFlags(cmd *cobra.Command, base *config.Config) *config.Config {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("election") {
		cfg.Reference.Election = electionName
	}
	if flags.Changed("reference") {
		cfg.Reference.File = referenceFile
	}
	if flags.Changed("workers") && workers > 0 {
		cfg.Validation.Workers = workers
	}
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = metricsFile
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = noColor
	}
	return &cfg
}

// collectDatasets resolves the command arguments, or the configured
// datasets when there are none
func collectDatasets(cfg *config.Config, args []string) ([]dataset, error) {
	var out []dataset
	if len(args) > 0 {
		kind, err := input.ParseDatasetKind(datasetKind)
		if err != nil {
			return nil, err
		}
		files, err := input.ExpandPaths(args)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			out = append(out, dataset{path: f, kind: kind, election: cfg.Reference.Election})
		}
		return out, nil
	}

	for _, d := range cfg.Datasets {
		kind, err := input.ParseDatasetKind(d.Kind)
		if err != nil {
			return nil, errors.At(err, "datasets", errors.Key(d.Path))
		}
		files, err := input.ExpandPaths([]string{d.Path})
		if err != nil {
			return nil, err
		}
		election := d.Election
		if election == "" {
			election = cfg.Reference.Election
		}
		for _, f := range files {
			out = append(out, dataset{path: f, kind: kind, election: election})
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.KindInput, "no dataset given: pass files or list datasets in the configuration")
	}
	return out, nil
}

// group is a run of consecutive documents sharing an election
type group struct {
	election string
	docs     []*input.Document
}

func (g *group) needsReference() bool {
	for _, doc := range g.docs {
		for _, kind := range doc.Kinds() {
			if kind == validate.KindPoll {
				return true
			}
		}
	}
	return false
}

func loadGroups(datasets []dataset, w *ui.Writer) ([]*group, error) {
	var groups []*group
	for _, d := range datasets {
		doc, err := input.LoadFile(d.path, d.kind)
		if err != nil {
			return nil, err
		}
		w.Debug("%s: %s, %d records", doc.Source.Path, doc.Layout, len(doc.Records))
		logging.Debug("dataset loaded",
			zap.String("document", doc.Source.Path),
			zap.String("layout", doc.Layout.String()),
			zap.Int("records", len(doc.Records)),
			zap.String("content_hash", doc.Source.ContentHash))
		if len(doc.Records) == 0 {
			w.Warning("%s holds no records", doc.Source.Path)
		}
		if n := len(groups); n > 0 && groups[n-1].election == d.election {
			groups[n-1].docs = append(groups[n-1].docs, doc)
			continue
		}
		groups = append(groups, &group{election: d.election, docs: []*input.Document{doc}})
	}
	return groups, nil
}

// merge folds the summary of a later group into acc
func merge(acc, next *batch.Summary) *batch.Summary {
	if acc == nil {
		return next
	}
	acc.Documents = append(acc.Documents, next.Documents...)
	acc.Accepted += next.Accepted
	acc.Duration += next.Duration
	acc.Failure = next.Failure
	return acc
}
