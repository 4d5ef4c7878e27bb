package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliver(t *testing.T) {
	var got string
	ok := WriterFunc(func(_ context.Context, text string) error {
		got = text
		return nil
	})

	res := Deliver(context.Background(), ok, "hello")
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, "hello", got)

	boom := errors.New("boom")
	failing := WriterFunc(func(context.Context, string) error { return boom })

	res = Deliver(context.Background(), failing, "hello")
	assert.False(t, res.Success)
	assert.Equal(t, FailureMessage, res.Error)
	assert.ErrorIs(t, res.Err, boom)
}

func TestSystemHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&System{}).Write(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
