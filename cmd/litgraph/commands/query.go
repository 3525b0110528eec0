package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/litgraph/am"
	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/engine"
	"github.com/teranos/litgraph/kb/parser"
	"github.com/teranos/litgraph/kb/queryerr"
	"github.com/teranos/litgraph/kb/types"
)

var (
	queryCollection string
	queryLimit      int
	queryStrategy   string
	queryOrder      []string
	queryAsc        bool
	queryYearAsc    bool
	queryStart      int
	queryEnd        int
	queryFormat     string
	queryNoCache    bool
)

// QueryCmd runs one graph query
var QueryCmd = &cobra.Command{
	Use:   "query PATTERN...",
	Short: "Run a graph query",
	Long: `query: Run a graph query

A query is one or more fact patterns "subject predicate object" joined by
_AND_ or ';'. Terms are entity ids, optionally typed (Disease:D001), or
variables (?X, ?X(Disease)). Predicate variables may carry a type signature:
?P(Chemical,Gene).

Strategies:
  auto          flat, substitution or tree depending on variable count
  flat          documents only
  substitution  one group per variable substitution
  tree          one level per variable (--order sets the levels)
  ontology      the single variable grouped along the MeSH taxonomy

Examples:
  litgraph query Metformin treats ?D(Disease)
  litgraph query "?D(Drug) treats ?X _AND_ ?X associated BRCA1" --order X,D
  litgraph query Aspirin treats ?D --strategy ontology --format tree
  litgraph query Aspirin treats ?D --start 0 --end 10 --format yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	QueryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "Document collection (default from config)")
	QueryCmd.Flags().IntVarP(&queryLimit, "limit", "l", 0, "Maximum rows fetched (default from config)")
	QueryCmd.Flags().StringVarP(&queryStrategy, "strategy", "s", string(engine.StrategyAuto), "Aggregation strategy: auto, flat, substitution, tree, ontology")
	QueryCmd.Flags().StringSliceVar(&queryOrder, "order", nil, "Variable order for tree levels, or the ontology variable")
	QueryCmd.Flags().BoolVar(&queryAsc, "asc", false, "Order groups by ascending size")
	QueryCmd.Flags().BoolVar(&queryYearAsc, "year-asc", false, "Order documents oldest first")
	QueryCmd.Flags().IntVar(&queryStart, "start", 0, "First root child to return")
	QueryCmd.Flags().IntVar(&queryEnd, "end", 0, "Root child to stop before (0 = all)")
	QueryCmd.Flags().StringVarP(&queryFormat, "format", "f", FormatTree, "Output format: json, yaml, tree")
	QueryCmd.Flags().BoolVar(&queryNoCache, "no-cache", false, "Bypass the result cache")
}

func runQuery(cmd *cobra.Command, args []string) error {
	q, err := parser.ParseArgs(args)
	if err != nil {
		return userError(err)
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	strategy, err := engine.ParseStrategy(queryStrategy)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	executor, cleanup, err := newExecutor(ctx, database, cfg, !queryNoCache)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := executor.Execute(ctx, buildRequest(cfg, q, strategy))
	if err != nil {
		return userError(err)
	}

	return renderResult(cmd.OutOrStdout(), result, queryFormat)
}

// buildRequest applies flags over configuration defaults
func buildRequest(cfg *am.Config, q *types.GraphQuery, strategy engine.Strategy) engine.Request {
	collection := queryCollection
	if collection == "" {
		collection = cfg.GetDefaultCollection()
	}
	return engine.Request{
		Query:            q,
		Collection:       collection,
		RowLimit:         cfg.EffectiveRowLimit(queryLimit),
		Strategy:         strategy,
		OrderedVariables: queryOrder,
		SortDesc:         cfg.Query.SortDesc && !queryAsc,
		YearSortDesc:     cfg.Query.YearSortDesc && !queryYearAsc,
		Start:            queryStart,
		End:              queryEnd,
	}
}

// userError prefixes query errors with their display message
func userError(err error) error {
	var qe *queryerr.QueryError
	if errors.As(err, &qe) {
		return errors.Wrap(err, qe.ToUIMessage())
	}
	return errors.Wrap(err, "failed to execute query")
}
