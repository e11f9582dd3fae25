package rt

import (
	"errors"
	"fmt"
)

// ErrCopyUnsupported is returned by Copy and MutableCopy when the class of
// the instance provides no way to duplicate it.
var ErrCopyUnsupported = errors.New("copy not supported")

// ContractViolation is the panic value raised when a caller breaks one of the
// runtime's contracts. The heap is assumed to be inconsistent at that point,
// so it is never returned as an ordinary error.
type ContractViolation struct {
	Op     string // operation that detected the violation
	Class  string // class name of the instance involved, if any
	Detail string
}

func (e *ContractViolation) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("objkit: %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("objkit: %s on %s: %s", e.Op, e.Class, e.Detail)
}

// violate logs and panics with a ContractViolation.
func violate(op, class, format string, args ...any) {
	cv := &ContractViolation{
		Op:     op,
		Class:  class,
		Detail: fmt.Sprintf(format, args...),
	}
	log.Critical(cv.Error())
	panic(cv)
}

// Fail panics with a ContractViolation naming the class of inst. Runtime
// types use it for their own contract checks, such as index bounds.
func Fail(op string, inst Instance, format string, args ...any) {
	class := ""
	if inst != nil {
		class = inst.objectHeader().className()
	}
	violate(op, class, format, args...)
}
