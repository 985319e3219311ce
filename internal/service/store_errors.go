package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
)

// mapStoreError converts gateway failures into API errors. Conflicts and missing rows are decided by
// the calling operation, so only availability and query failures are handled here. The driver cause
// is logged and never reaches the response body.
func mapStoreError(logger *zap.Logger, err error, message string) error {
	cause := err
	var dbErr *database.Error
	if errors.As(err, &dbErr) && dbErr.Cause() != nil {
		cause = dbErr.Cause()
	}

	if errors.Is(err, database.ErrUnavailable) {
		logger.Warn("datastore unavailable", zap.String("operation", message), zap.Error(cause))
		return appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, appErrors.ErrServiceUnavailable.Message)
	}

	logger.Error(message, zap.Error(cause))
	return appErrors.Wrap(err, appErrors.ErrQueryFailed.Code, appErrors.ErrQueryFailed.Status, message)
}
