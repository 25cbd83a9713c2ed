package lox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEquals(t *testing.T) {
	cases := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"equal numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"nan never equals nan", Number(math.NaN()), Number(math.NaN()), false},
		{"equal strings", String("a"), String("a"), true},
		{"different types never equal", Number(0), String("0"), false},
		{"nil equals nil", Nil, Nil, true},
		{"booleans", Bool(true), Bool(true), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, c.a.Equals(c.b))
		})
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		name     string
		v        Value
		expected string
	}{
		{"whole number has no decimal point", Number(3), "3"},
		{"fractional number keeps precision", Number(3.25), "3.25"},
		{"nan", Number(math.NaN()), "NaN"},
		{"positive infinity", Number(math.Inf(1)), "Inf"},
		{"negative infinity", Number(math.Inf(-1)), "-Inf"},
		{"nil", Nil, "nil"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"string", String("hi"), "hi"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, c.v.String())
		})
	}
}

func TestValueAccessorsTypeCheck(t *testing.T) {
	_, err := String("x").AsNumber()
	assert.Error(t, err)

	n, err := Number(5).AsNumber()
	assert.NoError(t, err)
	assert.Equal(t, 5.0, n)
}
