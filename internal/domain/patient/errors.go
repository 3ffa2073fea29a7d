package patient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteCPF is returned by Search while the CPF is still shorter than
// its formatted length. It is not a not-found signal.
var ErrIncompleteCPF = errors.New("cpf is incomplete")

// ValidationError reports required fields left blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

// DuplicateError reports a CPF that is already registered.
type DuplicateError struct {
	CPF string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("cpf %s is already registered", e.CPF)
}

// NotFoundError reports a lookup miss by id or CPF.
type NotFoundError struct {
	ID  int
	CPF string
}

func (e *NotFoundError) Error() string {
	if e.CPF != "" {
		return fmt.Sprintf("no patient with cpf %s", e.CPF)
	}
	return fmt.Sprintf("patient %d not found", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
