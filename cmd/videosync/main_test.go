package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/models"
)

func TestParseOrigins(t *testing.T) {
	origins, err := parseOrigins([]string{"Kodik", " rutor"})
	require.NoError(t, err)
	assert.Equal(t, []models.Origin{models.OriginKodik, models.OriginRutor}, origins)

	_, err = parseOrigins([]string{"kodik", "vimeo"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "sync", "preview"}, names)

	sync, _, err := root.Find([]string{"sync"})
	require.NoError(t, err)
	assert.NotNil(t, sync.Flags().Lookup("origins"))
	assert.NotNil(t, sync.Flags().Lookup("limit"))
	assert.NotNil(t, sync.Flags().Lookup("author"))
}
