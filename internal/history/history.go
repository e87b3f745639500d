// Package history archives committed sales to Postgres. The archive is
// write-behind and best-effort: it sits outside the engine's transaction
// boundary and a failed insert never fails the sale that produced it.
package history

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripmarket-io/tripmarket/internal/exchange"
)

// Archive records sales into the trades table.
type Archive struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and ensures the trades table exists.
func Open(ctx context.Context, dsn string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	a := &Archive{pool: pool}
	a.ensureTradesTable(ctx)
	log.Println("Connected to Postgres successfully")
	return a, nil
}

// ensureTradesTable creates the trades table if missing
func (a *Archive) ensureTradesTable(ctx context.Context) {
	_, err := a.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS trades (
            id BIGSERIAL PRIMARY KEY,
            kind TEXT NOT NULL CHECK (kind IN ('listing','bundle')),
            cert_id BIGINT,
            bundle_id TEXT,
            seller TEXT NOT NULL,
            buyer TEXT NOT NULL,
            price BIGINT NOT NULL,
            fee BIGINT NOT NULL,
            royalty BIGINT NOT NULL,
            traded_at BIGINT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_trades_seller ON trades(seller);
        CREATE INDEX IF NOT EXISTS idx_trades_buyer ON trades(buyer);
        CREATE INDEX IF NOT EXISTS idx_trades_cert ON trades(cert_id);
    `)
	if err != nil {
		log.Printf("failed to ensure trades table: %v", err)
	}
}

// RecordSale inserts the sale row; failures are logged, never propagated.
func (a *Archive) RecordSale(rec exchange.SaleRecord) {
	var certID any
	if rec.CertID != 0 {
		certID = int64(rec.CertID)
	}
	var bundleID any
	if rec.BundleID != "" {
		bundleID = rec.BundleID
	}
	_, err := a.pool.Exec(context.Background(),
		`INSERT INTO trades (kind, cert_id, bundle_id, seller, buyer, price, fee, royalty, traded_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.Kind, certID, bundleID, rec.Seller, rec.Buyer, rec.Price, rec.Fee, rec.Royalty, rec.At,
	)
	if err != nil {
		log.Printf("failed to record trade: %v", err)
	}
}

// Close releases the connection pool.
func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
