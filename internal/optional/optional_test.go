package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	PageCount   Field[int]    `json:"pageCount"`
}

func TestField_UnmarshalJSON(t *testing.T) {
	t.Run("absent fields are not set", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

		assert.False(t, p.Title.IsSet())
		assert.False(t, p.Description.IsSet())
		assert.Nil(t, p.Description.Ptr())
	})

	t.Run("explicit null is set without a value", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &p))

		assert.True(t, p.Description.IsSet())
		assert.True(t, p.Description.IsNull())
		assert.False(t, p.Title.IsSet())
	})

	t.Run("values are captured", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"title": "Dune", "pageCount": 412, "description": ""}`), &p))

		assert.Equal(t, "Dune", p.Title.Value())
		assert.Equal(t, 412, p.PageCount.Value())
		assert.True(t, p.Description.IsSet())
		assert.False(t, p.Description.IsNull())
		assert.Equal(t, "", p.Description.Value())
	})

	t.Run("type mismatch is an error", func(t *testing.T) {
		var p patch
		err := json.Unmarshal([]byte(`{"pageCount": "many"}`), &p)
		assert.Error(t, err)
	})
}

func TestFromPtr(t *testing.T) {
	assert.True(t, FromPtr[string](nil).IsNull())

	v := "x"
	f := FromPtr(&v)
	assert.True(t, f.IsSet())
	assert.Equal(t, "x", f.Value())
}
