package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/engine"
	"github.com/knowledge-engine/explorer/internal/filter"
	"github.com/knowledge-engine/explorer/internal/source"
	"github.com/knowledge-engine/explorer/internal/watch"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyse documents and print every cluster view and the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.NewSnapshotView(snap))
		},
	}
}

func newSimilarCmd(a *app) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "similar <path>",
		Short: "List the documents most similar to one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, snap, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			res, err := eng.Similar(snap, args[0], threshold)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.NewSimilarView(res))
		},
	}
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -1, "minimum similarity (default $SIMILARITY_THRESHOLD)")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Complete a query against the known concepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, snap, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.NewSuggestionsView(args[0], eng.Suggest(snap, args[0])))
		},
	}
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		query      string
		clusters   []string
		minC, maxC float64
		methods    []string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter documents and re-cluster the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := filter.Criteria{Query: query, Range: filter.Range{Min: minC, Max: maxC}}
			if err := criteria.Range.Validate(); err != nil {
				return err
			}
			for _, name := range clusters {
				pc, err := document.ParsePrimaryCluster(name)
				if err != nil {
					return err
				}
				criteria.Clusters = append(criteria.Clusters, pc)
			}
			ms, err := parseMethods(methods)
			if err != nil {
				return err
			}

			eng, snap, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			docs, err := eng.Filter(snap, criteria)
			if err != nil {
				return err
			}

			views := make(map[cluster.Method]cluster.Map, len(ms))
			for _, m := range ms {
				views[m], err = eng.Recluster(docs, m)
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), engine.NewFilterView(criteria, docs, views))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&query, "query", "q", "", "substring of name, path or concepts")
	flags.StringSliceVarP(&clusters, "cluster", "c", nil, "primary clusters to keep")
	flags.Float64Var(&minC, "min", 0, "minimum complexity")
	flags.Float64Var(&maxC, "max", 1, "maximum complexity")
	flags.StringSliceVarP(&methods, "method", "m", []string{string(cluster.MethodSemantic)}, "clustering methods to run on the result")
	return cmd
}

func newClustersCmd(a *app) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Print one cluster view and the similarity between its clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cluster.ParseMethod(method)
			if err != nil {
				return err
			}
			eng, snap, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			clusters, matrix, err := eng.ClusterSimilarity(snap, m)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.NewClusterSimilarityView(m, clusters, matrix))
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", string(cluster.MethodSemantic), "clustering method")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyse the document directory whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cluster.ParseMethod(method)
			if err != nil {
				return err
			}
			eng, cfg, err := a.engine(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			log := eng.Logger.WithField("component", "watch_cmd")
			w := watch.New(eng, source.NewDirectory(cfg.Source.Root, cfg.Source.Extensions), cfg.Watch.Delay,
				func(snap *engine.Snapshot, t cluster.Transition) {
					log.WithFields(logrus.Fields{
						"documents": len(snap.Documents),
						"moved":     len(t.Movements),
						"new":       len(t.New),
						"removed":   len(t.Removed),
					}).Info("Snapshot updated")
					if err := writeJSON(out, engine.NewTransitionView(t)); err != nil {
						log.WithError(err).Error("Failed to write transition")
					}
				})
			w.Method = m

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&method, "method", string(cluster.MethodSemantic), "cluster view used to report movements")
	return cmd
}
