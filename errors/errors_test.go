package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "tree number D26.255")
	err = Wrap(err, "ontology lookup")

	assert.True(t, Is(err, ErrNotFound))
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "ontology lookup")
	assert.Contains(t, err.Error(), "tree number D26.255")
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("no heading for %s", "MESH:D001")

	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "no heading for MESH:D001")
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("unknown variable %q", "X")

	assert.True(t, IsInvalidRequestError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
	assert.False(t, IsNotFoundError(nil))
}

func TestErrorChaining(t *testing.T) {
	base := New("base error")

	err := Wrap(base, "layer 1")
	err = WithHint(err, "helpful hint")
	err = WithDetail(err, "Operation: Execute")
	err = Wrap(err, "layer 2")

	assert.True(t, Is(err, base))
	assert.Contains(t, err.Error(), "layer 2")
	assert.Contains(t, err.Error(), "base error")

	require.Contains(t, GetAllHints(err), "helpful hint")
	require.Contains(t, GetAllDetails(err), "Operation: Execute")
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func ExampleWrap() {
	baseErr := New("connection failed")
	err := Wrap(baseErr, "failed to execute fact query")
	fmt.Println(err)
	// Output: failed to execute fact query: connection failed
}
