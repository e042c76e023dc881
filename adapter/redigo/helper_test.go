package redigo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetArgs(t *testing.T) {
	value := []byte("v")

	cases := []struct {
		name string
		ttl  time.Duration
		want []any
	}{
		{name: "no expiry", ttl: 0, want: []any{"k", value}},
		{name: "negative", ttl: -time.Second, want: []any{"k", value}},
		{name: "whole seconds", ttl: 5 * time.Second, want: []any{"k", value, "EX", int64(5)}},
		{name: "sub second", ttl: 250 * time.Millisecond, want: []any{"k", value, "PX", int64(250)}},
		{name: "fractional seconds", ttl: 1500 * time.Millisecond, want: []any{"k", value, "PX", int64(1500)}},
		{name: "below resolution", ttl: time.Microsecond, want: []any{"k", value, "PX", int64(1)}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, setArgs("k", value, c.ttl))
		})
	}
}
