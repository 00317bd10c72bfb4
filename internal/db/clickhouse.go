package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseOptions describes a native-protocol ClickHouse connection.
type ClickHouseOptions struct {
	DSN      string
	Database string
	Username string
	Password string
}

// NewClickHouseConn opens and verifies a ClickHouse connection. Query
// parameters on DSN are ignored; only the host:port part is dialled.
func NewClickHouseConn(ctx context.Context, opts ClickHouseOptions) (clickhouse.Conn, error) {
	host, _, _ := strings.Cut(opts.DSN, "?")

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
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create clickhouse connection: %w", err)
	}

	_, err = withRetry(ctx, func() (struct{}, error) {
		if err := conn.Ping(ctx); err != nil {
			return struct{}{}, fmt.Errorf("failed to ping clickhouse: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
