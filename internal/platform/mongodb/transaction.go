package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// withTransaction runs fn in a session transaction. The driver retries fn on
// transient transaction errors, so fn must not keep state between attempts.
// An error returned by fn aborts the transaction and is returned unchanged.
func withTransaction(
	ctx context.Context,
	client *mongo.Client,
	fallback *slog.Logger,
	fn func(ctx context.Context) error,
) error {
	log := logger.FromContextOrDefault(ctx, fallback)

	session, err := client.StartSession()
	if err != nil {
		log.Error("failed to start session", slog.String("error", err.Error()))
		return fmt.Errorf("%w: start session: %w", store.ErrTransactionFailed, err)
	}
	defer session.EndSession(ctx)

	var fnErr error
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		fnErr = fn(sc)
		return nil, fnErr
	})
	if err != nil {
		if fnErr != nil {
			log.Debug("rolled back transaction due to error", slog.String("error", fnErr.Error()))
			return fnErr
		}
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", store.ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	return nil
}
