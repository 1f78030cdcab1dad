package schema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/dynfilter/schema"
	"github.com/fuhongbo/dynfilter/value"
)

type widget struct {
	Name     string
	Age      int64
	Price    float64
	Active   bool
	Grade    rune
	unexported string
}

func TestOfReflectsExportedFields(t *testing.T) {
	s := schema.Of(reflect.TypeOf(widget{}))
	assert.Equal(t, "widget", s.Name)

	cases := map[string]value.Kind{
		"Name":   value.String,
		"Age":    value.Int,
		"Price":  value.Double,
		"Active": value.Bool,
		"Grade":  value.Char,
	}
	for name, want := range cases {
		f, ok := s.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Kind, name)
	}

	_, ok := s.Lookup("unexported")
	assert.False(t, ok)
}

func TestOfAcceptsPointerType(t *testing.T) {
	s := schema.Of(reflect.TypeOf(&widget{}))
	assert.Equal(t, "widget", s.Name)
	_, ok := s.Lookup("Name")
	assert.True(t, ok)
}

func TestLookupUnknownField(t *testing.T) {
	s := schema.Of(reflect.TypeOf(widget{}))
	_, ok := s.Lookup("DoesNotExist")
	assert.False(t, ok)
}
