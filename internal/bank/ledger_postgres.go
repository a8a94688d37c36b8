package bank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// PostgresConfig configures the optional persistent issuance ledger, mirroring
// the connection-parameter shape the teacher's own Postgres store used.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// DefaultPostgresConfig returns sane local-development defaults.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "cbdc",
		Database: "cbdc_issuance",
		SSLMode:  "disable",
		MaxConns: 10,
	}
}

// PostgresLedger persists minted-token issuance records beyond process
// lifetime, for banks that want a durable audit trail of everything they
// have ever signed.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger opens a connection pool and verifies it is reachable.
func NewPostgresLedger(ctx context.Context, cfg *PostgresConfig) (*PostgresLedger, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns,
	)
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("bank: connect issuance ledger: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("bank: ping issuance ledger: %w", err)
	}
	return &PostgresLedger{pool: pool}, nil
}

// EnsureSchema creates the issuance-ledger table if it does not already exist.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS issued_tokens (
			serial     BYTEA PRIMARY KEY,
			commitment BYTEA NOT NULL,
			expiry     BIGINT NOT NULL,
			signature  BYTEA NOT NULL,
			issued_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("bank: ensure issuance ledger schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Record(ctx context.Context, serial group.Scalar, c commitment.Commitment, expiry uint64, signature []byte) error {
	cBytes, err := c.Point.Bytes()
	if err != nil {
		return err
	}
	serialBytes := serial.Bytes32()
	_, err = l.pool.Exec(ctx,
		`INSERT INTO issued_tokens (serial, commitment, expiry, signature) VALUES ($1, $2, $3, $4)`,
		serialBytes, cBytes, expiry, signature,
	)
	if err != nil {
		return fmt.Errorf("bank: record issuance: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (l *PostgresLedger) Close() {
	l.pool.Close()
}
