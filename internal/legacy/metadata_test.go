package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagGet(t *testing.T) {
	bag := Bag{"first_name": " Jane ", "empty": "", "blank": "   "}

	v, ok := bag.Get("first_name")
	assert.True(t, ok)
	assert.Equal(t, "Jane", v)

	_, ok = bag.Get("empty")
	assert.False(t, ok, "empty values count as absent")
	_, ok = bag.Get("blank")
	assert.False(t, ok, "whitespace-only values count as absent")
	_, ok = bag.Get("missing")
	assert.False(t, ok)
}

func TestBagTruthy(t *testing.T) {
	bag := Bag{
		"a": "1", "b": "true", "c": "YES", "d": "On",
		"e": "0", "f": "false", "g": "2", "h": "",
	}

	for _, key := range []string{"a", "b", "c", "d"} {
		assert.True(t, bag.Truthy(key), "key %q", key)
	}
	for _, key := range []string{"e", "f", "g", "h", "missing"} {
		assert.False(t, bag.Truthy(key), "key %q", key)
	}
}

func TestBagConnectionValues(t *testing.T) {
	bag := Bag{
		"connection1":  "Zoom",
		"connection3":  "Source Connect",
		"connection2":  "  ",
		"connection15": "Skype",
		"connection16": "beyond the slot range",
	}

	assert.Equal(t, []string{"Zoom", "Source Connect", "Skype"}, bag.ConnectionValues())
}

func TestConnectionKey(t *testing.T) {
	assert.Equal(t, "connection1", ConnectionKey(1))
	assert.Equal(t, "connection15", ConnectionKey(15))
}
