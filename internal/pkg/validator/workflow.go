package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/entity"
)

// Validator validates user input before it reaches the workflow
type Validator struct {
	cfg config.InputConfig
}

func NewValidator(cfg config.InputConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateStartRun trims the url in place and rejects blank or oversized input.
// Anything else is handed to the generation service as is.
func (v *Validator) ValidateStartRun(req *entity.StartRunRequest) error {
	if req == nil {
		return fmt.Errorf("%w: %w: url", entity.ErrValidation, entity.ErrMissingField)
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return fmt.Errorf("%w: %w: url", entity.ErrValidation, entity.ErrMissingField)
	}

	if v.cfg.MaxURLLength > 0 && utf8.RuneCountInString(req.URL) > v.cfg.MaxURLLength {
		return fmt.Errorf("%w: url is longer than %d characters", entity.ErrValidation, v.cfg.MaxURLLength)
	}

	return nil
}
