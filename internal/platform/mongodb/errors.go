package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/transit-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError maps a driver error to an appropriate store error, keeping the
// original error in the chain. mongo.ErrNoDocuments is not mapped here.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	}

	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
