package glyphsvg

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "catalog with status",
			err:  &CatalogFetchError{Status: 403, Err: io.ErrUnexpectedEOF},
			want: []string{"font catalog unavailable", "HTTP 403", "unexpected EOF"},
		},
		{
			name: "catalog without status",
			err:  &CatalogFetchError{Err: io.EOF},
			want: []string{"font catalog unavailable: EOF"},
		},
		{
			name: "outline",
			err:  &OutlineFetchError{URL: "https://fonts.example/a.ttf", Status: 404},
			want: []string{"https://fonts.example/a.ttf", "HTTP 404"},
		},
		{
			name: "parameter",
			err:  &ParameterError{Field: "input-size", Value: "abc"},
			want: []string{`"abc"`, "input-size"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("Error() = %q, want it to contain %q", msg, w)
				}
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	var catErr *CatalogFetchError
	if !errors.As(error(&CatalogFetchError{Err: cause}), &catErr) || !errors.Is(catErr, cause) {
		t.Error("CatalogFetchError does not unwrap to its cause")
	}
	if !errors.Is(&OutlineFetchError{Err: cause}, cause) {
		t.Error("OutlineFetchError does not unwrap to its cause")
	}
	if !errors.Is(&ParameterError{Err: cause}, cause) {
		t.Error("ParameterError does not unwrap to its cause")
	}
}
