package safeconv

import (
	"math"
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

		assert.PanicsWithValue(t, "safeconv: negative int to uint64 conversion", func() {
			MustIntToUint64(-1)
		})
	})
}

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	t.Run("max_uint32", func(t *testing.T) {
		t.Parallel()

		if math.MaxInt == math.MaxInt32 {
			t.Skip("int is 32 bits wide")
		}

		widest := uint64(math.MaxUint32)
		assert.Equal(t, MaxUint32, MustIntToUint32(int(widest)))
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { MustIntToUint32(-1) })
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		if math.MaxInt == math.MaxInt32 {
			t.Skip("int is 32 bits wide")
		}

		tooWide := uint64(math.MaxUint32) + 1
		assert.Panics(t, func() { MustIntToUint32(int(tooWide)) })
	})
}
