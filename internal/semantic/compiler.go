package semantic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/state"
	"github.com/grimbano/ucm-tfm-grupo-4/internal/warehouse"
	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// Config carries everything a Compiler needs for a pass.
type Config struct {
	// AdapterConfig selects and configures the warehouse connection.
	AdapterConfig adapter.Config

	// Logger receives pass progress. Discarded when nil.
	Logger *slog.Logger

	// Store records pass history. Optional.
	Store state.Store

	// Language is the requested label language, e.g. "es" or "en".
	Language string

	// SemanticSchema is where compiled views and the flat table land.
	SemanticSchema string

	// FlatTable is the materialized flat table name.
	FlatTable string

	// Clock overrides the wall clock. Nil means time.Now.
	Clock Clock
}

// Result summarizes a completed pass.
type Result struct {
	PassID          string
	YearsDifference int
	FlatRowCount    int64
	ViewsCreated    []string
	Elapsed         time.Duration
}

// Compiler runs materialization passes: it fixes the temporal baseline,
// compiles the view definitions against the configured dialect and
// language, and materializes the flat table.
type Compiler struct {
	cfg    Config
	logger *slog.Logger

	dbMu sync.Mutex
	db   adapter.Adapter
}

// NewCompiler validates the config and returns a Compiler. The warehouse
// connection is opened lazily on the first pass.
func NewCompiler(cfg Config) (*Compiler, error) {
	if cfg.Language == "" {
		return nil, errors.New("language is required")
	}
	if cfg.SemanticSchema == "" {
		return nil, errors.New("semantic schema is required")
	}
	if cfg.FlatTable == "" {
		return nil, errors.New("flat table name is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{cfg: cfg, logger: logger}, nil
}

func (c *Compiler) ensureDBConnected(ctx context.Context) (adapter.Adapter, error) {
	c.dbMu.Lock()
	defer c.dbMu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	db, err := adapter.New(c.cfg.AdapterConfig, c.logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, c.cfg.AdapterConfig); err != nil {
		return nil, fmt.Errorf("connecting to warehouse: %w", err)
	}
	c.db = db
	return db, nil
}

// Close releases the warehouse connection.
func (c *Compiler) Close() error {
	c.dbMu.Lock()
	defer c.dbMu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Run executes one full materialization pass. The temporal offset is
// computed exactly once at the start and reused for every object created
// during the pass, so all shifted dates within it stay mutually consistent.
func (c *Compiler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	passID := uuid.NewString()
	c.logger.Info("starting materialization pass", "pass_id", passID, "language", c.cfg.Language)

	c.recordPassStart(passID)

	res, err := c.run(ctx, passID)
	if err != nil {
		c.recordPassEnd(passID, state.PassStatusFailed, 0, err.Error())
		return nil, err
	}
	res.PassID = passID
	res.Elapsed = time.Since(start)
	c.recordPassEnd(passID, state.PassStatusCompleted, res.FlatRowCount, "")

	c.logger.Info("pass completed",
		"pass_id", passID,
		"views", len(res.ViewsCreated),
		"flat_rows", res.FlatRowCount,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

func (c *Compiler) run(ctx context.Context, passID string) (*Result, error) {
	db, err := c.ensureDBConnected(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := NewLocalizer(c.cfg.Language)
	if err != nil {
		return nil, err
	}

	clock := c.cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	temporal, err := ComputeTemporalContext(ctx, db, clock, warehouse.FactSources())
	if err != nil {
		return nil, err
	}
	c.logger.Info("temporal baseline fixed",
		"pass_id", passID,
		"max_order_year", temporal.MaxOrderYear,
		"years_difference", temporal.YearsDifference,
	)
	c.recordPassOffset(passID, temporal.YearsDifference)

	bctx := &BuildContext{
		Dialect:   db.Dialect(),
		Temporal:  temporal,
		Localizer: loc,
		Schema:    c.cfg.SemanticSchema,
	}

	if err := execCommand(ctx, db, "CREATE SCHEMA IF NOT EXISTS "+c.cfg.SemanticSchema); err != nil {
		return nil, fmt.Errorf("creating schema %s: %w", c.cfg.SemanticSchema, err)
	}

	res := &Result{YearsDifference: temporal.YearsDifference}

	var viewErrs []error
	for _, v := range Views() {
		if err := c.createView(ctx, db, v, bctx); err != nil {
			// The flat table cannot materialize without its source view,
			// so that one aborts the pass. Other views degrade gracefully.
			if v.Name == FlatTableView {
				return nil, errors.Join(append(viewErrs, err)...)
			}
			c.logger.Warn("view creation failed", "view", v.Name, "error", err)
			viewErrs = append(viewErrs, fmt.Errorf("view %s: %w", v.Name, err))
			continue
		}
		res.ViewsCreated = append(res.ViewsCreated, v.Name)
	}
	if len(viewErrs) > 0 {
		return nil, errors.Join(viewErrs...)
	}

	rows, err := c.materializeFlat(ctx, db, bctx)
	if err != nil {
		return nil, err
	}
	res.FlatRowCount = rows

	if err := c.checkFlatIntegrity(ctx, db, rows); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Compiler) createView(ctx context.Context, db adapter.Adapter, v ViewDefinition, bctx *BuildContext) error {
	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s.%s AS (\n%s\n)", bctx.Schema, v.Name, v.Build(bctx))
	if err := execCommand(ctx, db, stmt); err != nil {
		return err
	}
	c.logger.Debug("view created", "view", v.Name)
	return nil
}

func (c *Compiler) materializeFlat(ctx context.Context, db adapter.Adapter, bctx *BuildContext) (int64, error) {
	qualified := c.cfg.SemanticSchema + "." + c.cfg.FlatTable

	if err := execCommand(ctx, db, "DROP TABLE IF EXISTS "+qualified); err != nil {
		return 0, fmt.Errorf("dropping previous flat table: %w", err)
	}
	stmt := CreateTableAs(c.cfg.SemanticSchema, c.cfg.FlatTable, BuildUnifiedFactSQL(bctx))
	if err := execCommand(ctx, db, stmt); err != nil {
		return 0, fmt.Errorf("materializing %s: %w", qualified, err)
	}
	return c.countRows(ctx, db, qualified)
}

// checkFlatIntegrity verifies the flat table carries exactly one row per
// source fact line. A shortfall means a fact row silently lost a dimension
// join, which is a warehouse integrity problem the pass must surface.
func (c *Compiler) checkFlatIntegrity(ctx context.Context, db adapter.Adapter, flatRows int64) error {
	var sourceRows int64
	for _, fact := range warehouse.FactSources() {
		n, err := c.countRows(ctx, db, fact)
		if err != nil {
			return err
		}
		sourceRows += n
	}
	if flatRows != sourceRows {
		return fmt.Errorf("flat table has %d rows but source facts have %d: a join dropped or duplicated rows", flatRows, sourceRows)
	}
	c.logger.Debug("flat table integrity verified", "rows", flatRows)
	return nil
}

func (c *Compiler) countRows(ctx context.Context, db adapter.Adapter, table string) (int64, error) {
	rows, err := queryRows(ctx, db, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if !rows.Next() {
		return 0, fmt.Errorf("counting %s: no result row", table)
	}
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	return n, rows.Err()
}

// Pass-history recording is best effort. A broken history store must not
// stop a materialization pass.

func (c *Compiler) recordPassStart(id string) {
	if c.cfg.Store == nil {
		return
	}
	if _, err := c.cfg.Store.CreatePass(id, c.cfg.Language); err != nil {
		c.logger.Warn("failed to record pass start", "pass_id", id, "error", err)
	}
}

func (c *Compiler) recordPassOffset(id string, yearsDifference int) {
	if c.cfg.Store == nil {
		return
	}
	if err := c.cfg.Store.SetPassOffset(id, yearsDifference); err != nil {
		c.logger.Warn("failed to record pass offset", "pass_id", id, "error", err)
	}
}

func (c *Compiler) recordPassEnd(id string, status state.PassStatus, flatRows int64, errMsg string) {
	if c.cfg.Store == nil {
		return
	}
	if err := c.cfg.Store.CompletePass(id, status, flatRows, errMsg); err != nil {
		c.logger.Warn("failed to record pass completion", "pass_id", id, "error", err)
	}
}
