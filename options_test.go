package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOptions(t *testing.T) {
	c := New(quietConfig())

	assert.True(t, c.SetOptions(map[any]any{
		"foo": 1,
		"bar": "b",
	}))

	v, ok := c.GetOption("foo")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = c.GetOption("bar")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestGetOptionMissing(t *testing.T) {
	c := New(quietConfig())

	v, ok := c.GetOption("not exists")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, ResFailure, c.ResultCode())
}

func TestOptionDefaults(t *testing.T) {
	c := New(quietConfig())

	v, ok := c.GetOption(OptPrefixKey)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	v, _ = c.GetOption(OptCompression)
	assert.Equal(t, true, v)
	v, _ = c.GetOption(OptSerializer)
	assert.Equal(t, SerializerJSON, v)
	v, _ = c.GetOption(OptConnectTimeout)
	assert.Equal(t, 1000, v)
}

func TestOptionIntKeysNormalize(t *testing.T) {
	c := New(quietConfig())

	assert.True(t, c.SetOption(-1002, "p."))
	v, ok := c.GetOption(OptPrefixKey)
	assert.True(t, ok)
	assert.Equal(t, "p.", v)
	assert.Equal(t, "p.k", c.Key("k"))

	c.SetOptions(map[any]any{OptPrefixKey: "q.", OptHash: HashMurmur})
	v, _ = c.GetOption(int(OptHash))
	assert.Equal(t, HashMurmur, v)
	assert.Equal(t, "q.k", c.Key("k"))
}

func TestOptionUnhashableKey(t *testing.T) {
	c := New(quietConfig())

	v, ok := c.GetOption([]string{"x"})
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, ResFailure, c.ResultCode())

	assert.False(t, c.SetOption(map[string]int{}, 1))
	assert.Equal(t, ResFailure, c.ResultCode())

	_, ok = c.GetOption([1]any{[]int{1}})
	assert.False(t, ok)

	assert.True(t, c.SetOption(nil, "n"))
	v, ok = c.GetOption(nil)
	assert.True(t, ok)
	assert.Equal(t, "n", v)
}
