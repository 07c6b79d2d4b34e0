package util

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgschema/pgenum/internal/logger"
)

// MinServerVersion is the oldest PostgreSQL major version pgenum is tested against.
const MinServerVersion = 14

// RowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DetectServerVersion returns the major version of the connected server.
func DetectServerVersion(ctx context.Context, db RowQuerier) (int, error) {
	// e.g. 170005 for 17.5
	var versionNum int
	if err := db.QueryRow(ctx, "SELECT current_setting('server_version_num')::int").Scan(&versionNum); err != nil {
		return 0, fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	return versionNum / 10000, nil
}

// CheckServerVersion fails when the server is older than MinServerVersion.
func CheckServerVersion(ctx context.Context, db RowQuerier) error {
	major, err := DetectServerVersion(ctx, db)
	if err != nil {
		return err
	}
	logger.Get().Debug("Detected PostgreSQL server", "major_version", major)
	return checkMajorVersion(major)
}

func checkMajorVersion(major int) error {
	if major < MinServerVersion {
		return fmt.Errorf("unsupported PostgreSQL version %d (supported: %d and later)", major, MinServerVersion)
	}
	return nil
}
