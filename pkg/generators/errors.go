package generators

import (
	"errors"
	"fmt"
)

// ErrNoSampleAvailable is returned when a generator produces no value.
var ErrNoSampleAvailable = errors.New("generators: no sample available")

// ErrMissingCollaborator matches every MissingCollaboratorError via errors.Is.
var ErrMissingCollaborator = errors.New("generators: missing collaborator")

// MissingCollaboratorError reports a collaborator that was not configured by
// the time a delegating primitive ran.
type MissingCollaboratorError struct {
	Name string
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("generators: missing collaborator %q", e.Name)
}

// Is lets errors.Is(err, ErrMissingCollaborator) match any missing name.
func (e *MissingCollaboratorError) Is(target error) bool {
	return target == ErrMissingCollaborator
}
