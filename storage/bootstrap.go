package storage

import (
	"context"
	"log/slog"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/database"
)

// Backends holds the storage handles selected at startup. It is built
// once and passed by dependency injection; nothing reads process-wide
// flags. The selection is fixed for the process lifetime: a connection
// that dies later fails individual requests rather than triggering a
// fallback.
type Backends struct {
	Trades  TradeStore
	Catalog CatalogStore

	TradeBackend   BackendKind
	CatalogBackend BackendKind
}

// Select picks the backend for each data family independently.
//
// Catalog: try MongoDB; on failure fall back to the empty in-memory
// store and keep going. Trades: use Postgres when the database handle
// initialized, otherwise the same in-memory store. No retry or
// re-evaluation happens after this returns.
func Select(ctx context.Context, cfg *config.Config, db *database.DB) *Backends {
	backends := &Backends{}
	mem := NewMemoryStore()

	mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		slog.Warn("MongoDB connection failed, using memory storage for trading items",
			slog.String("error", err.Error()))
		backends.Catalog = mem
		backends.CatalogBackend = BackendMemory
	} else {
		slog.Info("MongoDB connected, using for trading items")
		backends.Catalog = NewMongoCatalogStore(mongoDB)
		backends.CatalogBackend = BackendMongo
	}

	if db != nil {
		slog.Info("PostgreSQL connected, using for users and trade ads")
		backends.Trades = NewPostgresTradeStore(db)
		backends.TradeBackend = BackendPostgres
	} else {
		slog.Warn("PostgreSQL unavailable, using memory storage for users and trade ads")
		backends.Trades = mem
		backends.TradeBackend = BackendMemory
	}

	return backends
}
