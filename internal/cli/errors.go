package cli

import (
	"errors"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/repository"
	"github.com/alexanderramin/riskboard/internal/service"
)

// errorLine turns a store or validation failure into the one-line message
// the dashboard shows.
func errorLine(err error) string {
	var verr *domain.ValidationError
	var serr *repository.StoreError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, repository.ErrStoreUnavailable):
		return "store unavailable: " + err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return "task no longer exists: " + err.Error()
	case errors.Is(err, service.ErrAmbiguousID):
		return err.Error()
	case errors.As(err, &serr):
		return "store rejected the change: " + err.Error()
	default:
		return err.Error()
	}
}
