package store

import "fmt"

// ParameterShapeError reports a mismatch between the number of ?
// placeholders in a statement and the number of positional parameters
// supplied for it. It is raised before the statement reaches the
// engine, so no parameters are ever partially applied.
type ParameterShapeError struct {
	// Placeholders is the number of ? markers found in the statement.
	Placeholders int

	// Params is the number of positional parameters supplied.
	Params int
}

// Error implements the error interface.
func (e *ParameterShapeError) Error() string {
	return fmt.Sprintf("statement has %d placeholders but %d parameters were given",
		e.Placeholders, e.Params)
}
