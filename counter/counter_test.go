package counter_test

import (
	"math"
	"testing"

	"github.com/newhook/memsearch/counter"
	"github.com/stretchr/testify/assert"
)

func TestIntEquality(t *testing.T) {
	a := counter.StoreInt(42, counter.Width4)
	b := counter.StoreInt(42, counter.Width4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.NotEqual(b))
}

func TestIntSignExtension(t *testing.T) {
	a := counter.StoreInt(-1, counter.Width1)
	assert.Equal(t, int64(-1), a.Int())
	assert.Equal(t, uint64(0xFF), a.Uint())
}

func TestFloatNaNNeverEqualLessGreater(t *testing.T) {
	nan := counter.StoreFloat(math.NaN(), counter.Width4)
	one := counter.StoreFloat(1, counter.Width4)

	assert.False(t, nan.Equal(one))
	assert.False(t, nan.Greater(one))
	assert.False(t, nan.Less(one))
	assert.False(t, one.Equal(nan))
	assert.False(t, one.Greater(nan))
	assert.False(t, one.Less(nan))
}

func TestFloatNaNAlwaysNotEqual(t *testing.T) {
	nan := counter.StoreFloat(math.NaN(), counter.Width4)
	assert.True(t, nan.NotEqual(nan))
	assert.True(t, nan.NotEqual(counter.StoreFloat(1, counter.Width4)))
}

func TestFloatEqualityFloorsOnIntegralArgument(t *testing.T) {
	current := counter.StoreFloat(3.75, counter.Width4)
	arg := counter.StoreFloat(3, counter.Width4) // no fractional part
	assert.True(t, current.Equal(arg))

	argFractional := counter.StoreFloat(3.75, counter.Width4)
	assert.True(t, current.Equal(argFractional))
	assert.False(t, current.Equal(counter.StoreFloat(3.5, counter.Width4)))
}

func TestMismatchedKindsCompareFalse(t *testing.T) {
	i := counter.StoreInt(1, counter.Width4)
	f := counter.StoreFloat(1, counter.Width4)
	assert.False(t, i.Equal(f))
	assert.False(t, i.Greater(f))
	assert.False(t, i.Less(f))
	assert.True(t, i.NotEqual(f))
}

func TestMismatchHookFires(t *testing.T) {
	var got [2]counter.Counter
	called := false
	counter.MismatchHook = func(a, b counter.Counter) {
		called = true
		got[0], got[1] = a, b
	}
	defer func() { counter.MismatchHook = nil }()

	i := counter.StoreInt(1, counter.Width4)
	f := counter.StoreFloat(1, counter.Width4)
	i.Equal(f)

	assert.True(t, called)
	assert.Equal(t, counter.Int, got[0].Kind)
	assert.Equal(t, counter.Float, got[1].Kind)
}

func TestWithUintWraps(t *testing.T) {
	c := counter.StoreInt(0, counter.Width1)
	wrapped := c.WithUint(0x1FF)
	assert.Equal(t, uint64(0xFF), wrapped.Uint())
}
