package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Do()
}

type impl struct{}

func (impl) Do() {}

func TestCheckInit(t *testing.T) {
	t.Run(`initialized`, func(t *testing.T) {
		var instance provider = impl{}
		require.NotPanics(t, func() {
			CheckInit("provider", instance)
		})
	})

	t.Run(`not initialized`, func(t *testing.T) {
		var instance provider
		require.PanicsWithValue(t, "зависимость provider не инициализирована", func() {
			CheckInit("provider", instance)
		})
	})

	t.Run(`bad arguments`, func(t *testing.T) {
		require.Panics(t, func() {
			CheckInit("provider")
		})
		require.Panics(t, func() {
			CheckInit(1, impl{})
		})
	})
}
