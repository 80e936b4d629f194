package contract

import "errors"

var (
	ErrOracleInvoke    = errors.New("oracle invoke failed")
	ErrSchemaViolation = errors.New("oracle response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
)
