package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	for _, name := range []string{"node", "way", "relation"} {
		typ, ok := ParseType(name)
		assert.True(t, ok, name)
		assert.Equal(t, Type(name), typ)
	}

	_, ok := ParseType("changeset")
	assert.False(t, ok)
}

func TestEntityTag(t *testing.T) {
	e := &Entity{ID: "w1", Type: Way}
	assert.Equal(t, "", e.Tag("area"))

	e.Tags = map[string]string{"area": "yes"}
	assert.Equal(t, "yes", e.Tag("area"))
}
