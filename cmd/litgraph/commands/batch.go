package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/litgraph/am"
	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/engine"
	"github.com/teranos/litgraph/kb/parser"
	"github.com/teranos/litgraph/logger"
)

var (
	batchParallel int
	batchStrategy string
)

// BatchCmd runs a file of graph queries concurrently
var BatchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Run one graph query per line of a file",
	Long: `batch: Run one graph query per line of a file

Blank lines and lines starting with # are skipped. Queries share one
executor and run concurrently; a failing query is reported in its row and
does not stop the others. Query flags such as --collection and --limit
apply to every line.

Examples:
  litgraph batch queries.txt
  litgraph batch queries.txt --parallel 8 --strategy substitution`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	BatchCmd.Flags().IntVarP(&batchParallel, "parallel", "p", 4, "Queries run at once")
	BatchCmd.Flags().StringVarP(&batchStrategy, "strategy", "s", string(engine.StrategyAuto), "Aggregation strategy for every query")
	BatchCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "Document collection (default from config)")
	BatchCmd.Flags().IntVarP(&queryLimit, "limit", "l", 0, "Maximum rows fetched per query (default from config)")
}

// batchOutcome is the summary of one batch line
type batchOutcome struct {
	Line      int
	Query     string
	Documents int
	Groups    int
	LimitHit  bool
	Cached    bool
	Millis    int64
	Err       error
}

// readQueries returns the non-empty, non-comment lines with their line numbers
func readQueries(r io.Reader) ([]int, []string, error) {
	var lines []int
	var queries []string
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, n)
		queries = append(queries, text)
	}
	return lines, queries, scanner.Err()
}

// runQueries executes every query with at most parallel in flight.
// Outcomes keep input order.
func runQueries(ctx context.Context, executor *engine.Executor, base engine.Request, lines []int, queries []string, parallel int) []batchOutcome {
	outcomes := make([]batchOutcome, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i := range queries {
		i := i
		g.Go(func() error {
			out := &outcomes[i]
			out.Line, out.Query = lines[i], queries[i]

			q, err := parser.Parse(queries[i])
			if err != nil {
				out.Err = err
				return nil
			}
			req := base
			req.Query = q
			result, err := executor.Execute(ctx, req)
			if err != nil {
				out.Err = err
				return nil
			}
			out.Documents = result.Tree.Size()
			out.Groups = len(result.Tree.Children)
			out.LimitHit = result.LimitHit
			out.Cached = result.Cached
			out.Millis = result.ExecutionTimeMs
			return nil
		})
	}
	// goroutines record failures in their outcome instead of returning them
	_ = g.Wait()
	return outcomes
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", args[0])
	}
	defer f.Close()

	lines, queries, err := readQueries(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}
	if len(queries) == 0 {
		return errors.Newf("no queries in %s", args[0])
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	strategy, err := engine.ParseStrategy(batchStrategy)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	executor, cleanup, err := newExecutor(ctx, database, cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Logger.Infow("Running batch", logger.FieldCount, len(queries), "parallel", batchParallel)
	outcomes := runQueries(ctx, executor, buildRequest(cfg, nil, strategy), lines, queries, batchParallel)

	failed := 0
	data := pterm.TableData{{"Line", "Query", "Documents", "Groups", "Limit", "Cached", "ms"}}
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			data = append(data, []string{fmt.Sprint(o.Line), o.Query, "error: " + o.Err.Error(), "", "", "", ""})
			continue
		}
		data = append(data, []string{
			fmt.Sprint(o.Line), o.Query,
			fmt.Sprint(o.Documents), fmt.Sprint(o.Groups),
			fmt.Sprint(o.LimitHit), fmt.Sprint(o.Cached), fmt.Sprint(o.Millis),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	if failed > 0 {
		return errors.Newf("%d of %d queries failed", failed, len(queries))
	}
	return nil
}
