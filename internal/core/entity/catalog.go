package entity

import (
	"context"
	"strings"

	"bullionledger/internal/core/apperror"
)

// Validate implements Validatable interface.
func (c *BaseCatalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
