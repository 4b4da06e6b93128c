package domain

import "strings"

// ValidationError collects every problem found while validating an entity.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Add(problem string) {
	e.Problems = append(e.Problems, problem)
}

// OrNil returns e as an error when it holds problems, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
