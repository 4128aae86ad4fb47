package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Username        string
	Password        string
	Database        string
}

// Open connects to the ClickHouse cluster backing the postings archive.
func Open(ctx context.Context, opts Options) (clickhouse.Conn, error) {
	hostAndParams := strings.Split(opts.DSN, "?")
	host := hostAndParams[0]

	conn, err := clickhouse.Open(&clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{host},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout:     time.Second * 30,
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create clickhouse connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// EnsureSchema creates the archive table. Postings are append-only here;
// re-publishes of the same id are deduplicated by ReplacingMergeTree on
// updated_at at merge time.
func EnsureSchema(ctx context.Context, conn clickhouse.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS published_postings (
			id String,
			employer_id String,
			title String,
			description String,
			salary_amount Float64,
			salary_unit String,
			duration_amount Int32,
			duration_unit String,
			state String,
			district String,
			status String,
			created_at DateTime,
			updated_at DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY (id)
	`
	if err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create published_postings table: %w", err)
	}
	return nil
}
