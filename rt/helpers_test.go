package rt

import "testing"

// box is the test instance type used throughout the package tests.
type box struct {
	Header
	value int
}

// counted registers a fresh Box class whose destroy callback increments
// *destroyed.
func counted(name string, destroyed *int) RuntimeID {
	return Register(&Class{
		Name: name,
		Destroy: func(Instance) {
			*destroyed++
		},
	})
}

func expectViolation(t *testing.T, op string, fn func()) *ContractViolation {
	t.Helper()
	var cv *ContractViolation
	func() {
		defer func() {
			r := recover()
			v, ok := r.(*ContractViolation)
			if !ok {
				t.Fatalf("expected *ContractViolation panic, got %#v", r)
			}
			cv = v
		}()
		fn()
	}()
	if op != "" && cv.Op != op {
		t.Errorf("violation op = %q, want %q (%v)", cv.Op, op, cv)
	}
	return cv
}
