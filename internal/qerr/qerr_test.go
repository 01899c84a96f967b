// Public domain.

package qerr_test

import (
	"errors"
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

func TestVerifyPassesSilently(t *testing.T) {
	qerr.Verify(true, "should not panic")
}

func TestVerifyPanicsWithInternalKind(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		e, ok := r.(*qerr.Error)
		if !ok {
			t.Fatalf("panic value is %T, want *qerr.Error", r)
		}
		if e.Kind != qerr.Internal {
			t.Errorf("Kind = %v, want Internal", e.Kind)
		}
	}()
	qerr.Verify(false, "deliberate failure")
}

func TestRecoverConvertsPanicToError(t *testing.T) {
	run := func() (err error) {
		defer qerr.Recover(&err)
		qerr.Verify(1 == 2, "arithmetic is broken")
		return nil
	}
	err := run()
	if err == nil {
		t.Fatal("expected an error")
	}
	var qe *qerr.Error
	if !errors.As(err, &qe) {
		t.Fatalf("error is %T, want *qerr.Error", err)
	}
	if qe.Kind != qerr.Internal {
		t.Errorf("Kind = %v, want Internal", qe.Kind)
	}
}

func TestRecoverRepanicsOnForeignPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected the foreign panic to propagate")
		}
	}()
	run := func() (err error) {
		defer qerr.Recover(&err)
		panic("not a qerr.Error")
	}
	run()
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	inner := errors.New("boom")
	wrapped := qerr.Wrap(qerr.InputFormat, "reading", inner)
	if !errors.Is(wrapped, inner) {
		t.Error("Wrap should preserve the underlying error for errors.Is")
	}
}
