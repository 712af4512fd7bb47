package bibxerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesByKindNotMessage(t *testing.T) {
	err := New(InvalidFormat, "file %q is not WoS", "export.txt")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("errors.Is(%v, ErrInvalidFormat) = false, want true", err)
	}
	if errors.Is(err, ErrMalformedLine) {
		t.Errorf("errors.Is(%v, ErrMalformedLine) = true, want false", err)
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("strconv failed")
	err := Wrap(MalformedLine, cause, "bad integer")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false, want true", err)
	}
	if !errors.Is(err, ErrMalformedLine) {
		t.Errorf("errors.Is(%v, ErrMalformedLine) = false, want true", err)
	}
}

func TestErrorMessageFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with message",
			err:  New(MissingCriticalInformation, "no PY field"),
			want: "missing-critical-information: no PY field",
		},
		{
			name: "sentinel with no message",
			err:  ErrInvalidFormat,
			want: "invalid-format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 99
	if got := k.String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}
