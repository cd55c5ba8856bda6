package backupcode

import "errors"

var (
	ErrInvalidCount       = errors.New("backup code count must be at least 1")
	ErrFailedToGenerate   = errors.New("failed to generate backup code")
	ErrDuplicateExhausted = errors.New("could not draw enough distinct backup codes")
)
