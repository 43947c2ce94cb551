package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/logicspark/logicspark/internal/common"
)

// failure wraps an unexpected error from a store, hasher or archiver. Context
// expiry becomes common.ErrTimeout, anything else common.ErrorInternal; the
// original error stays in the chain for logging.
func failure(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, common.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
}
