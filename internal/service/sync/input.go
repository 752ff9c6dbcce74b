package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// ReconcileInput holds one sync round trip from a device: the changes it
// queued offline and the server timestamp of its last successful sync.
type ReconcileInput struct {
	Since   time.Time
	Changes []domain.ClientChange
}

// Validate checks the batch shape. Per-change problems (unknown fields,
// missing entities) are reported as conflicts, not errors, so one bad
// change cannot sink a whole batch.
func (i *ReconcileInput) Validate(maxBatchSize int) error {
	var errs []domain.FieldError

	if len(i.Changes) > maxBatchSize {
		errs = append(errs, domain.FieldError{
			Field:   "changes",
			Message: fmt.Sprintf("batch exceeds %d changes", maxBatchSize),
		})
	}
	for idx, c := range i.Changes {
		if c.EntityID == uuid.Nil {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("changes[%d].entity_id", idx),
				Message: "required",
			})
		}
		if c.ClientTime.IsZero() {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("changes[%d].client_time", idx),
				Message: "required",
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
