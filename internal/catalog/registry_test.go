package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition(key, group string) Definition {
	return Definition{
		Info: Info{Key: key, Group: group, Label: key},
		Fields: []Field{
			{Key: "name", Label: "Name", Rules: "required"},
		},
	}
}

func TestRegistry(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(testDefinition("subjects", "Academics"))
	Register(testDefinition("candidates", "People"))
	Register(testDefinition("departments", "Academics"))

	assert.Equal(t, 3, Count())
	assert.Equal(t, []string{"Academics", "People"}, Groups())

	var keys []string
	for _, d := range All() {
		keys = append(keys, d.Info.Key)
	}
	assert.Equal(t, []string{"departments", "subjects", "candidates"}, keys)

	academics := ByGroup("Academics")
	require.Len(t, academics, 2)
	assert.Equal(t, "departments", academics[0].Info.Key)

	def, ok := Get("subjects")
	require.True(t, ok)
	assert.Equal(t, "subjects", def.Info.Table, "table defaults to key")

	_, err := Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestRegister_Panics(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(testDefinition("subjects", "Academics"))
	assert.Panics(t, func() { Register(testDefinition("subjects", "Academics")) })

	dup := testDefinition("dup", "x")
	dup.Fields = append(dup.Fields, Field{Key: "name", Label: "Other"})
	assert.Panics(t, func() { Register(dup) })
}
