package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name      string
		available int
		taken     int
		want      bool
	}{
		{"untouched", 2, 0, true},
		{"one left", 2, 1, true},
		{"all taken", 1, 1, false},
		{"no copies", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{Title: "T", AvailableCount: tt.available, TakenCount: tt.taken}
			assert.Equal(t, tt.want, b.CheckAvailability())
			assert.Equal(t, tt.available > tt.taken, b.CheckAvailability())
		})
	}
}

func TestBookEqualIgnoresGenreAndCounters(t *testing.T) {
	a := NewBook("Dune", "Herbert", 1965, Fiction, 1)
	b := NewBook("Dune", "Herbert", 1965, Rare, 7)
	b.TakenCount = 3

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())

	c := NewBook("Dune", "Herbert", 1966, Fiction, 1)
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestParseGenre(t *testing.T) {
	tests := []struct {
		in      string
		want    Genre
		wantErr bool
	}{
		{"0", Fiction, false},
		{"4", Rare, false},
		{"history", History, false},
		{" Fantasy ", Fantasy, false},
		{"5", 0, true},
		{"-1", 0, true},
		{"poetry", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGenre(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenreText(t *testing.T) {
	text, err := Science.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Science", string(text))

	var g Genre
	require.NoError(t, g.UnmarshalText([]byte("rare")))
	assert.Equal(t, Rare, g)

	_, err = Genre(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Genre(9)", Genre(9).String())
}

func TestBookDetails(t *testing.T) {
	b := NewBook("Dune", "Herbert", 1965, Fiction, 2)
	assert.Equal(t, "Dune (Herbert, 1965) - Fiction", b.String())
	assert.Contains(t, b.Details(), "Available: 2, Taken: 0")
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))

	a := &Book{Title: "A", AvailableCount: 2}
	b := &Book{Title: "B", AvailableCount: 1, TakenCount: 1}
	assert.Equal(t, Stats{Total: 2, Available: 1}, ComputeStats([]*Book{a, b}))

	// Recomputed on demand.
	b.TakenCount = 0
	assert.Equal(t, Stats{Total: 2, Available: 2}, ComputeStats([]*Book{a, b}))
}
