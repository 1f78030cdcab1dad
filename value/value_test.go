package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuhongbo/dynfilter/value"
)

func TestKindNames(t *testing.T) {
	assert.Equal(t, "Object", value.Object.Name())
	assert.Equal(t, "Boolean", value.Bool.Name())
	assert.Equal(t, "Int32", value.Int.Name())
	assert.Equal(t, "Double", value.Double.Name())
	assert.Equal(t, "Char", value.Char.Name())
	assert.Equal(t, "String", value.String.Name())
}

func TestConstructorsAndAccessors(t *testing.T) {
	assert.Equal(t, int64(5), value.OfInt(5).Int())
	assert.Equal(t, 5.5, value.OfDouble(5.5).Double())
	assert.True(t, value.OfBool(true).Bool())
	assert.Equal(t, 'x', value.OfChar('x').Char())
	assert.Equal(t, "hi", value.OfString("hi").String())
	assert.Nil(t, value.Null().Raw)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, value.Int.IsNumeric())
	assert.True(t, value.Double.IsNumeric())
	assert.False(t, value.String.IsNumeric())
	assert.False(t, value.Bool.IsNumeric())
}

func TestPromote(t *testing.T) {
	assert.Equal(t, value.Int, value.Promote(value.Int, value.Int))
	assert.Equal(t, value.Double, value.Promote(value.Int, value.Double))
	assert.Equal(t, value.Double, value.Promote(value.Double, value.Int))
	assert.Equal(t, value.Double, value.Promote(value.Double, value.Double))
}

func TestToDouble(t *testing.T) {
	assert.Equal(t, 3.0, value.ToDouble(value.OfInt(3)).Double())
	assert.Equal(t, 3.5, value.ToDouble(value.OfDouble(3.5)).Double())
}

func TestToDoublePanicsOnNonNumeric(t *testing.T) {
	assert.Panics(t, func() { value.ToDouble(value.OfString("x")) })
}
