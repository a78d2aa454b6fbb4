package service

import (
	"errors"
	"fmt"
	"log"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/blob"
	"github.com/naijatax/backend/internal/classifier"
	"github.com/naijatax/backend/internal/ingest"
	"github.com/naijatax/backend/internal/store"
	"github.com/naijatax/backend/internal/taxengine"
)

// toConnectError maps domain errors onto Connect codes. Errors that are
// already Connect errors pass through.
func toConnectError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	wrapped := fmt.Errorf("%s: %w", op, err)
	switch {
	case taxengine.IsValidationError(err):
		return connect.NewError(connect.CodeInvalidArgument, wrapped)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, wrapped)
	case errors.Is(err, taxengine.ErrAdjustmentResolved):
		return connect.NewError(connect.CodeFailedPrecondition, wrapped)
	case errors.Is(err, taxengine.ErrInvalidResolution), errors.Is(err, taxengine.ErrNothingToAdjust):
		return connect.NewError(connect.CodeInvalidArgument, wrapped)
	}

	switch ingest.CodeOf(err) {
	case ingest.ErrInvalidDocument, ingest.ErrNoTransactionsFound, ingest.ErrFileTooLarge:
		return connect.NewError(connect.CodeInvalidArgument, wrapped)
	}

	switch classifier.CodeOf(err) {
	case classifier.ErrRateLimited:
		return connect.NewError(connect.CodeResourceExhausted, wrapped)
	case classifier.ErrCircuitOpen, classifier.ErrLLMUnavailable, classifier.ErrNotConfigured, classifier.ErrSchemaInvalid:
		return connect.NewError(connect.CodeUnavailable, wrapped)
	}

	if ingest.CodeOf(err) == ingest.ErrLLMFailed {
		return connect.NewError(connect.CodeUnavailable, wrapped)
	}

	log.Printf("[TaxService] %s failed: %v", op, err)
	return connect.NewError(connect.CodeInternal, wrapped)
}
