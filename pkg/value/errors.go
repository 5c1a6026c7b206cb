package value

import "fmt"

// ShapeMismatchError is returned when series operands of a single operation do
// not share an identical index.
type ShapeMismatchError struct {
	Operand int
	Want    Index
	Got     Index
}

// Error implements the error interface for ShapeMismatchError.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("series index mismatch: operand %d has index %s, expected %s", e.Operand, e.Got, e.Want)
}
