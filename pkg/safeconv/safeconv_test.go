package safeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, uint64(42), MustIntToUint64(42))
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, uint64(0), MustIntToUint64(0))
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { MustIntToUint64(-1) })
	})
}

func TestMustIntToInt8(t *testing.T) {
	t.Parallel()

	t.Run("bounds", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, int8(127), MustIntToInt8(127))
		assert.Equal(t, int8(-128), MustIntToInt8(-128))
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { MustIntToInt8(128) })
		assert.Panics(t, func() { MustIntToInt8(-129) })
	})
}
