package main

import (
	"testing"

	"opta/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrack(t *testing.T) {
	track, err := parseTrack("39.7817,-89.6501; 39.7917 , -89.6501")
	require.NoError(t, err)
	assert.Equal(t, []model.Coordinate{
		{Latitude: 39.7817, Longitude: -89.6501},
		{Latitude: 39.7917, Longitude: -89.6501},
	}, track)

	for _, bad := range []string{"", "39.7", "x,1", "1,y", "95,0"} {
		_, err := parseTrack(bad)
		assert.Error(t, err, bad)
	}
}
