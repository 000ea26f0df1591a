package scanner

import "errors"

var (
	// ErrValidation marks input rejected before any network activity.
	ErrValidation = errors.New("validation error")

	ErrNoTargets  = validationError("At least one URL is required")
	ErrNoPayloads = validationError("At least one payload is required")

	// ErrAborted is wrapped when a scan stops before covering every pair.
	ErrAborted = errors.New("scan aborted")
)

type validation struct {
	msg string
}

func validationError(msg string) error {
	return &validation{msg: msg}
}

func (v *validation) Error() string {
	return v.msg
}

func (v *validation) Is(target error) bool {
	return target == ErrValidation
}
