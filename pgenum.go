// Package pgenum provides a programmatic API for retyping PostgreSQL enum
// columns: renaming and removing enum values while migrating stored rows.
package pgenum

import (
	"context"
	"fmt"
	"time"

	planCmd "github.com/pgschema/pgenum/cmd/plan"
	"github.com/pgschema/pgenum/cmd/util"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/request"
	"github.com/pgschema/pgenum/internal/runner"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host     string // Database server host
	Port     int    // Database server port
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	SSLMode  string // SSL mode (default: "prefer")
}

// PlanOptions configures plan generation. Exactly one of File or Request is used.
type PlanOptions struct {
	File     string   // Path to the alteration request YAML file
	Request  *Request // Pre-loaded request (alternative to File)
	IDColumn string   // Row identifier column (default: "id")
}

// AlterOptions configures how alterations are applied.
type AlterOptions struct {
	DatabaseConfig
	File             string        // Path to the alteration request YAML file
	Request          *Request      // Pre-loaded request (alternative to File)
	DryRun           bool          // Roll every transaction back after running it
	Parallel         int           // Tables altered concurrently (default: 1)
	BatchSize        int           // Row updates per batch (default: 500)
	IDColumn         string        // Row identifier column (default: "id")
	LockTimeout      time.Duration // SET LOCAL lock_timeout for each transaction
	StatementTimeout time.Duration // SET LOCAL statement_timeout for each transaction
	ApplicationName  string        // Application name for database connection (default: "pgenum")
	Progress         runner.ProgressFunc
}

// Client provides the main interface for pgenum operations.
type Client struct {
	defaultDB  DatabaseConfig
	defaultApp string
}

// NewClient creates a new pgenum client with default database configuration.
func NewClient(dbConfig DatabaseConfig) *Client {
	if dbConfig.SSLMode == "" {
		dbConfig.SSLMode = "prefer"
	}
	return &Client{
		defaultDB:  dbConfig,
		defaultApp: "pgenum",
	}
}

// Plan prepares every alteration of a request without connecting to a database.
func (c *Client) Plan(ctx context.Context, opts PlanOptions) ([]TablePlan, error) {
	req, err := loadRequest(opts.File, opts.Request)
	if err != nil {
		return nil, err
	}
	return planCmd.BuildPlans(req.Groups(), enumalter.Options{IDColumn: opts.IDColumn})
}

// Alter applies a request, one transaction per table.
func (c *Client) Alter(ctx context.Context, opts AlterOptions) ([]TableResult, error) {
	req, err := loadRequest(opts.File, opts.Request)
	if err != nil {
		return nil, err
	}

	if opts.Host == "" {
		opts.DatabaseConfig = c.defaultDB
	}
	if opts.SSLMode == "" {
		opts.SSLMode = c.defaultDB.SSLMode
	}
	if opts.ApplicationName == "" {
		opts.ApplicationName = c.defaultApp
	}

	pool, err := util.ConnectPool(ctx, &util.ConnectionConfig{
		Host:            opts.Host,
		Port:            opts.Port,
		Database:        opts.Database,
		User:            opts.User,
		Password:        opts.Password,
		SSLMode:         opts.SSLMode,
		ApplicationName: opts.ApplicationName,
		MaxConns:        opts.Parallel,
	})
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if err := util.CheckServerVersion(ctx, pool); err != nil {
		return nil, err
	}

	r := runner.New(pool, runner.Options{
		Parallel:         opts.Parallel,
		DryRun:           opts.DryRun,
		LockTimeout:      opts.LockTimeout,
		StatementTimeout: opts.StatementTimeout,
		Alter: enumalter.Options{
			IDColumn:  opts.IDColumn,
			BatchSize: opts.BatchSize,
		},
		Progress: opts.Progress,
	})
	return r.Run(ctx, req.Groups())
}

func loadRequest(path string, req *Request) (*Request, error) {
	switch {
	case req != nil:
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return req, nil
	case path != "":
		return request.Load(path)
	default:
		return nil, fmt.Errorf("either File or Request must be provided")
	}
}
