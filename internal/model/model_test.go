package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedLessons(t *testing.T) {
	ls := SeedLessons()
	require.Len(t, ls, 10)
	assert.Equal(t, uint64(1), ls[0].ID)
	assert.Equal(t, "Mathematics", ls[0].Subject)
	assert.Equal(t, "/images/physical-education.png", ls[7].Image)
	for _, l := range ls {
		assert.Equal(t, 5, l.Spaces)
		assert.Equal(t, "London", l.Location)
	}
}

func TestLessonJSON(t *testing.T) {
	b, err := json.Marshal(SeedLessons()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"subject":"Mathematics","location":"London","price":100,"spaces":5,"image":"/images/mathematics.png"}`, string(b))

	var back Lesson
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Price.Equal(SeedLessons()[0].Price))
}
