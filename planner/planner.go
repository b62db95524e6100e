// Package planner is the orchestration glue: it drives a parsed Cypher
// statement through logical-plan construction, the analyzer pipeline, the
// optimizer pipeline, render-plan generation, and SQL text generation, in
// that fixed order. Grounded on original_source/src/query_planner/mod.rs's
// evaluate_read_query/evaluate_read_statement and on the teacher's
// engine.go top-level Query orchestration shape (request-scoped logging,
// errors.Wrap at each stage boundary).
package planner

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cyphersql/graphengine/analyzer"
	"github.com/cyphersql/graphengine/catalog"
	"github.com/cyphersql/graphengine/config"
	"github.com/cyphersql/graphengine/cypherast"
	"github.com/cyphersql/graphengine/idmapper"
	"github.com/cyphersql/graphengine/internal/slogx"
	"github.com/cyphersql/graphengine/logicalplan"
	"github.com/cyphersql/graphengine/optimizer"
	"github.com/cyphersql/graphengine/planctx"
	"github.com/cyphersql/graphengine/renderplan"
	"github.com/cyphersql/graphengine/resolver"
	"github.com/cyphersql/graphengine/sqlgen"
)

// Options carries the recognized-options record a caller may supply per
// query (spec.md §6): tenant scoping, parameterized-view argument values,
// and the two tunable limits.
type Options struct {
	TenantID    string
	HasTenantID bool

	ViewParameterValues map[string]string

	MaxInferredTypes int

	// MaxCTEDepth bounds variable-length-path recursion depth; defaults to
	// 100 when zero (spec.md §6).
	MaxCTEDepth int

	// Dialect is the target SQL backend; defaults to catalog.DialectClickHouse
	// (the zero value) when unset.
	Dialect catalog.Dialect
}

// Engine binds a graph catalog and an id-mapper collaborator and plans
// queries against them. One Engine is reused across many queries; it holds
// no per-query mutable state itself (that lives in the PlanCtx built fresh
// inside Plan).
type Engine struct {
	Catalog *catalog.Catalog
	Mapper  idmapper.IDMapper
}

// OptionsFromConfig lifts the engine-wide config.Config into per-query
// Options; callers may still override ViewParameterValues/TenantID per
// request by copying the result and editing fields before calling Plan.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TenantID:            cfg.TenantID,
		HasTenantID:         cfg.HasTenantID,
		ViewParameterValues: cfg.ViewParameterValues,
		MaxInferredTypes:    cfg.MaxInferredTypes,
		MaxCTEDepth:         cfg.MaxCTEDepth,
		Dialect:             catalog.ParseDialect(cfg.Dialect),
	}
}

// New returns an Engine ready to plan queries against cat, resolving id()
// calls via mapper (idmapper.NewMemMapper(nil) is a reasonable default when
// no session cache is wired up).
func New(cat *catalog.Catalog, mapper idmapper.IDMapper) *Engine {
	if mapper == nil {
		mapper = idmapper.NewMemMapper(nil)
	}
	return &Engine{Catalog: cat, Mapper: mapper}
}

// Result is everything a caller needs out of planning one statement: the
// emitted SQL text, a cache key suitable for the external query-template
// cache (spec.md §5), and the request id the plan was logged under.
type Result struct {
	RequestID  uuid.UUID
	SQL        string
	CacheKey   string
	RenderPlan *renderplan.RenderPlan
}

// Plan runs stmt through the full pipeline and returns the rendered SQL.
func (e *Engine) Plan(stmt *cypherast.CypherStatement, opts Options) (*Result, error) {
	requestID := uuid.New()
	log := slogx.ForPass("planner").WithField("request_id", requestID.String())

	ctx := planctx.New(opts.MaxCTEDepth)
	ctx.TenantID, ctx.HasTenantID = opts.TenantID, opts.HasTenantID
	ctx.Dialect = opts.Dialect
	if opts.MaxInferredTypes > 0 {
		ctx.MaxInferredTypes = opts.MaxInferredTypes
	}
	for k, v := range opts.ViewParameterValues {
		ctx.ViewParameterValues[k] = v
	}

	plan, err := logicalplan.Build(stmt, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "logical-plan construction")
	}
	log.Debug("logical plan built")

	plan, err = analyzer.Run(analyzer.Pipeline(e.Mapper), plan, e.Catalog, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "analyzer pipeline")
	}
	log.Debug("analyzer pipeline complete")

	plan, err = optimizer.Run(optimizer.Pipeline(), plan, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "optimizer pipeline")
	}
	log.Debug("optimizer pipeline complete")

	res := resolver.New()
	rp, err := renderplan.Generate(plan, ctx, res, e.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "render-plan generation")
	}
	log.Debug("render plan generated")

	sql, err := sqlgen.EmitSQL(rp, res, e.Catalog, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "SQL generation")
	}

	cacheKey, err := sqlgen.CacheKey(rp, e.Catalog.Name)
	if err != nil {
		return nil, errors.Wrap(err, "cache key computation")
	}

	log.WithField("cache_key", cacheKey).Debug("plan complete")
	return &Result{RequestID: requestID, SQL: sql, CacheKey: cacheKey, RenderPlan: rp}, nil
}
