package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetExtraFieldValue_Duplicate(t *testing.T) {
	post := &Post{ExtraFields: []ExtraField{
		{Name: "rating", Type: FieldTypeText, Value: "7"},
		{Name: "rating", Type: FieldTypeText, Value: "8"},
	}}

	err := post.SetExtraFieldValue("rating", "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateField))
	assert.Equal(t, "7", post.ExtraFields[0].Value)
	assert.Equal(t, "8", post.ExtraFields[1].Value)
}

func TestSetExtraFieldValue(t *testing.T) {
	post := &Post{ExtraFields: []ExtraField{{Name: "rating", Value: "7"}, {Name: "year", Value: "2001"}}}

	require.NoError(t, post.SetExtraFieldValue("rating", "9"))
	require.NoError(t, post.SetExtraFieldValue("year", 2014))
	assert.Equal(t, "9", post.ExtraFields[0].Value)
	assert.Equal(t, "2014", post.ExtraFields[1].Value)

	require.NoError(t, post.SetExtraFieldValue("rating", 8.5))
	assert.Equal(t, "8.5", post.ExtraFields[0].Value)
}

func TestSetExtraFieldValue_Rejects(t *testing.T) {
	post := &Post{ExtraFields: []ExtraField{{Name: "rating", Value: "7"}}}

	assert.ErrorIs(t, post.SetExtraFieldValue("rating", ""), ErrInvalidArgument)
	assert.ErrorIs(t, post.SetExtraFieldValue("rating", []string{"a"}), ErrInvalidArgument)
	assert.ErrorIs(t, post.SetExtraFieldValue("rating", nil), ErrInvalidArgument)
	assert.ErrorIs(t, post.SetExtraFieldValue("missing", "1"), ErrNotFound)
}

func TestAddFindRemoveExtraField(t *testing.T) {
	post := &Post{}
	require.NoError(t, post.AddExtraField(ExtraField{Name: "genre", Value: "drama"}))
	assert.ErrorIs(t, post.AddExtraField(ExtraField{Name: "genre", Value: "comedy"}), ErrDuplicateField)
	assert.ErrorIs(t, post.AddExtraField(ExtraField{Value: "x"}), ErrInvalidArgument)

	f, ok := post.FindExtraField("genre")
	require.True(t, ok)
	assert.Equal(t, "drama", f.Value)

	require.NoError(t, post.RemoveExtraField("genre"))
	_, ok = post.FindExtraField("genre")
	assert.False(t, ok)
	assert.ErrorIs(t, post.RemoveExtraField("genre"), ErrNotFound)
}

func TestCategoryIDs(t *testing.T) {
	post := &Post{Categories: []Category{{ID: "1", Name: "a"}, {ID: "4", Name: "b"}}}
	ids, err := post.CategoryIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids)
	assert.True(t, post.HasCategory("4"))

	post.Categories = append(post.Categories, NewCategory("new", "new"))
	_, err = post.CategoryIDs()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
