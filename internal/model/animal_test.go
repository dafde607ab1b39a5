package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordClone(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Record(nil).Clone())
	})

	t.Run("nested values are not shared", func(t *testing.T) {
		orig := Record{
			"name":   "Rex",
			"age":    52,
			"intake": map[string]any{"condition": "Normal", "history": []any{"stray"}},
			"colors": []string{"Brown", "White"},
			"owner":  Record{"city": "Austin"},
		}
		cp := orig.Clone()
		assert.Equal(t, orig, cp)

		cp["intake"].(map[string]any)["condition"] = "Injured"
		cp["intake"].(map[string]any)["history"].([]any)[0] = "owner surrender"
		cp["colors"].([]string)[0] = "Black"
		cp["owner"].(Record)["city"] = "Dallas"
		cp["name"] = "Max"

		assert.Equal(t, "Rex", orig["name"])
		assert.Equal(t, "Normal", orig["intake"].(map[string]any)["condition"])
		assert.Equal(t, "stray", orig["intake"].(map[string]any)["history"].([]any)[0])
		assert.Equal(t, "Brown", orig["colors"].([]string)[0])
		assert.Equal(t, "Austin", orig["owner"].(Record)["city"])
	})
}

func TestCloneValue_Scalars(t *testing.T) {
	assert.Equal(t, 3.5, CloneValue(3.5))
	assert.Equal(t, "Dog", CloneValue("Dog"))
	assert.Nil(t, CloneValue(nil))
}
