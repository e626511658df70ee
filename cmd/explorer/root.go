package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/config"
	"github.com/knowledge-engine/explorer/internal/engine"
	"github.com/knowledge-engine/explorer/internal/source"
)

// app carries the persistent flags shared by every command.
type app struct {
	logger *logrus.Logger

	dir     string
	input   string
	lexicon string
	seed    uint64
	verbose bool
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:   "explorer",
		Short: "Explore a document collection by concept, tone and cluster",
		Long: `explorer analyses a set of documents, derives concepts, complexity,
tone and structure for each one, and groups them with several clustering
strategies.

Documents come from a directory (--dir, default $SOURCE_ROOT) or from a
JSON array of {path, name, content} records (--input, "-" for stdin).

Examples:
  explorer analyze --dir ./notes
  explorer similar notes/design.md
  explorer suggest hu
  explorer filter --query human --cluster philosophy --min 0.2
  explorer clusters --method hybrid
  explorer watch --dir ./notes`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				a.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.dir, "dir", "d", "", "document directory (default $SOURCE_ROOT)")
	flags.StringVarP(&a.input, "input", "i", "", "JSON document records, - for stdin")
	flags.StringVar(&a.lexicon, "lexicon", "", "YAML lexicon overlay (default $EXPLORER_LEXICON_FILE)")
	flags.Uint64Var(&a.seed, "seed", 0, "seed for the adaptive strategy (default $CLUSTER_SEED)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAnalyzeCmd(a),
		newSimilarCmd(a),
		newSuggestCmd(a),
		newFilterCmd(a),
		newClustersCmd(a),
		newWatchCmd(a),
	)
	return root
}

// config merges the flags over the environment configuration.
func (a *app) config(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if a.dir != "" {
		cfg.Source.Root = a.dir
	}
	if a.lexicon != "" {
		cfg.Analysis.LexiconFile = a.lexicon
	}
	if cfg.Log.Debug {
		a.logger.SetLevel(logrus.DebugLevel)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Cluster.Seed = a.seed
		cfg.Cluster.HasSeed = true
	}
	return cfg
}

func (a *app) engine(cmd *cobra.Command) (*engine.Engine, *config.Config, error) {
	cfg := a.config(cmd)
	eng, err := engine.NewEngine(cfg, a.logger.WithField("service", "explorer"), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return eng, cfg, nil
}

func (a *app) loader(cfg *config.Config) source.Loader {
	if a.input != "" {
		return source.JSONFile(a.input)
	}
	return source.NewDirectory(cfg.Source.Root, cfg.Source.Extensions)
}

// snapshot runs the full pipeline over the configured documents.
func (a *app) snapshot(cmd *cobra.Command) (*engine.Engine, *engine.Snapshot, error) {
	eng, cfg, err := a.engine(cmd)
	if err != nil {
		return nil, nil, err
	}
	raws, err := a.loader(cfg).Load()
	if err != nil {
		return nil, nil, err
	}
	snap, err := eng.Analyze(raws)
	if err != nil {
		return nil, nil, err
	}
	return eng, snap, nil
}

func parseMethods(names []string) ([]cluster.Method, error) {
	methods := make([]cluster.Method, 0, len(names))
	for _, name := range names {
		m, err := cluster.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
