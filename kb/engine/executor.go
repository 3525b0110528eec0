// Package engine runs graph queries end to end: compile, execute, fold,
// aggregate and resolve display names, with an optional result cache in
// front.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/aggregate"
	"github.com/teranos/litgraph/kb/compile"
	"github.com/teranos/litgraph/kb/fold"
	"github.com/teranos/litgraph/kb/types"
	"github.com/teranos/litgraph/logger"
)

// Request describes one query execution
type Request struct {
	Query      *types.GraphQuery
	Collection string
	// RowLimit caps fetched rows; 0 means unbounded
	RowLimit int
	Strategy Strategy
	// OrderedVariables orders tree levels, or names the ontology variable.
	// Defaults to the binding order of the query.
	OrderedVariables []string
	SortDesc         bool
	YearSortDesc     bool
	// Start and End slice the root children when End > Start
	Start int
	End   int
}

// Result is the outcome of Execute
type Result struct {
	Tree            *types.AggregateList
	LimitHit        bool
	Fingerprint     string
	Strategy        Strategy
	Cached          bool
	ExecutionTimeMs int64
}

// Options provides optional collaborators for an Executor
type Options struct {
	Ontology kb.OntologyIndex   // Optional taxonomy (default: EmptyOntology)
	Resolver kb.EntityResolver  // Optional display names (default: NoOpEntityResolver)
	Cache    kb.ResultCache     // Optional result cache (default: NoOpResultCache)
	Logger   *zap.SugaredLogger // Optional logger (default: nil, no logging)
}

// Executor runs queries against a fact store. It holds no per-query state
// and is safe for concurrent use when its collaborators are.
type Executor struct {
	store    kb.FactStore
	ontology kb.OntologyIndex
	resolver kb.EntityResolver
	cache    kb.ResultCache
	logger   *zap.SugaredLogger
}

// NewExecutor creates an executor, defaulting nil options to no-op collaborators
func NewExecutor(store kb.FactStore, opts Options) *Executor {
	if opts.Ontology == nil {
		opts.Ontology = kb.EmptyOntology{}
	}
	if opts.Resolver == nil {
		opts.Resolver = kb.NoOpEntityResolver{}
	}
	if opts.Cache == nil {
		opts.Cache = kb.NoOpResultCache{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Executor{
		store:    store,
		ontology: opts.Ontology,
		resolver: opts.Resolver,
		cache:    opts.Cache,
		logger:   opts.Logger,
	}
}

// Execute runs req and returns its result tree
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	ctx = logger.WithCollection(ctx, req.Collection)
	log := logger.LoggerFromContext(ctx, e.logger)

	if req.Start < 0 || req.End < 0 {
		return nil, errors.NewInvalidRequestError("slice bounds must be >= 0, got [%d, %d)", req.Start, req.End)
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyAuto
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}

	compiled, err := compile.Compile(req.Query, req.Collection, req.RowLimit)
	if err != nil {
		return nil, err
	}
	strategy = strategy.resolve(len(compiled.Variables))
	order, err := orderFor(strategy, compiled, req.OrderedVariables)
	if err != nil {
		return nil, err
	}

	fingerprint := req.Query.Fingerprint()
	cacheKey := fingerprint + cacheSuffix(strategy, order, req)
	log.Debugw("Executing graph query",
		logger.FieldQuery, req.Query.String(),
		logger.FieldStrategy, string(strategy),
		logger.FieldFingerprint, fingerprint,
		logger.FieldRowLimit, req.RowLimit,
	)

	result := &Result{Fingerprint: fingerprint, Strategy: strategy}

	cached, found, err := e.cache.Load(ctx, req.Collection, cacheKey)
	if err != nil {
		log.Warnw("Result cache load failed", logger.FieldError, err)
	}
	if found {
		result.Tree = cached.Tree
		result.LimitHit = cached.LimitHit
		result.Cached = true
	} else {
		tree, limitHit, err := e.build(ctx, compiled, strategy, order, req)
		if err != nil {
			return nil, err
		}
		result.Tree = tree
		result.LimitHit = limitHit

		if err := e.cache.Store(ctx, req.Collection, cacheKey, &types.CachedResult{Tree: tree, LimitHit: limitHit}); err != nil {
			log.Warnw("Result cache store failed", logger.FieldError, err)
		}
	}

	if req.End > req.Start {
		// slice a fresh root so cached trees keep every child
		result.Tree = &types.AggregateList{Children: result.Tree.Children}
		result.Tree.Slice(req.Start, req.End)
	}
	result.ExecutionTimeMs = time.Since(start).Milliseconds()

	log.Infow("Graph query executed",
		logger.FieldStrategy, string(strategy),
		logger.FieldCount, result.Tree.Size(),
		logger.FieldLimitHit, result.LimitHit,
		"cached", result.Cached,
		logger.FieldDurationMS, result.ExecutionTimeMs,
	)
	return result, nil
}

// build runs the uncached part of the pipeline
func (e *Executor) build(ctx context.Context, compiled *types.CompiledQuery, strategy Strategy, order []string, req Request) (*types.AggregateList, bool, error) {
	rows, err := e.store.Execute(ctx, compiled.Request)
	if err != nil {
		err = errors.Wrap(err, "failed to execute graph query")
		return nil, false, errors.WithDetail(err, fmt.Sprintf("Query: %s", compiled.Query))
	}
	limitHit := false
	if req.RowLimit > 0 && len(rows) > req.RowLimit {
		rows = rows[:req.RowLimit]
		limitHit = true
	}

	results := fold.Fold(compiled.Variables, rows)

	var tree *types.AggregateList
	switch strategy {
	case StrategyFlat:
		tree = aggregate.Flat{}.Aggregate(results, req.YearSortDesc)
	case StrategySubstitution:
		tree = aggregate.Substitution{}.Aggregate(results, req.SortDesc)
	case StrategyTree:
		tree, err = aggregate.SubstitutionTree{}.Aggregate(results, order, req.SortDesc)
		if err != nil {
			return nil, false, err
		}
	case StrategyOntology:
		tree = aggregate.Ontology{
			Index:  e.ontology,
			Logger: logger.LoggerFromContext(ctx, e.logger),
		}.Aggregate(results, order[0], req.SortDesc, req.YearSortDesc)
	}

	e.resolveNames(ctx, tree)
	return tree, limitHit, nil
}

// resolveNames fills display names of every substitution in the tree.
// Misses fall back to the surface form and are never fatal.
func (e *Executor) resolveNames(ctx context.Context, tree *types.AggregateList) {
	resolve := func(subs map[string]types.EntitySubstitution) {
		for name, sub := range subs {
			if sub.EntityType == types.TypePredicate {
				sub.EntityName = sub.DisplayName()
			} else {
				sub.Resolve(ctx, e.resolver)
			}
			subs[name] = sub
		}
	}
	types.Walk(tree, func(n types.ResultNode) {
		switch node := n.(type) {
		case *types.Aggregate:
			resolve(node.Substitutions)
		case *types.DocumentResult:
			resolve(node.Substitutions)
		}
	})
}

// orderFor returns the variables that drive tree and ontology aggregation
func orderFor(strategy Strategy, compiled *types.CompiledQuery, requested []string) ([]string, error) {
	bound := make(map[string]bool, len(compiled.Variables))
	for _, v := range compiled.Variables {
		bound[v.Name] = true
	}
	for _, name := range requested {
		if !bound[name] {
			return nil, errors.NewInvalidRequestError("variable %q is not bound by the query", name)
		}
	}

	switch strategy {
	case StrategyTree:
		if len(requested) > 0 {
			return requested, nil
		}
		if len(compiled.Variables) == 0 {
			return nil, errors.NewInvalidRequestError("tree strategy needs at least one variable")
		}
		return compiled.VariableNames(), nil
	case StrategyOntology:
		switch {
		case len(requested) == 1:
			return requested, nil
		case len(requested) == 0 && len(compiled.Variables) == 1:
			return compiled.VariableNames(), nil
		default:
			return nil, errors.NewInvalidRequestError("ontology strategy needs exactly one variable")
		}
	}
	return nil, nil
}

// cacheSuffix encodes everything besides the query that shapes the tree
func cacheSuffix(strategy Strategy, order []string, req Request) string {
	return fmt.Sprintf(":%s:%s:limit=%d:desc=%t:yeardesc=%t",
		strategy, strings.Join(order, ","), req.RowLimit, req.SortDesc, req.YearSortDesc)
}
