package collection

import (
	"testing"

	"github.com/chazu/objkit/rt"
)

// token is a plain instance with identity equality, used to watch retain
// counts and destruction from inside collections.
type token struct {
	rt.Header
	destroyed *int
}

func (tk *token) Destroy() {
	*tk.destroyed++
}

var tokenClass rt.LazyClass

func init() {
	tokenClass.Define(&rt.Class{Name: "Token"})
}

func newToken(destroyed *int) *token {
	tk := rt.New[token](tokenClass.ID(), rt.Mutable)
	tk.destroyed = destroyed
	return tk
}

func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := recover().(*rt.ContractViolation); !ok {
			t.Error("expected a contract violation")
		}
	}()
	fn()
}
