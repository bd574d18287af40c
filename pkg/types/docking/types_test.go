package docking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoringFunction(t *testing.T) {
	for _, name := range []string{"vina", "vinardo", "ad4"} {
		sf, err := ParseScoringFunction(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(sf))
	}
	_, err := ParseScoringFunction("dock6")
	assert.EqualError(t, err, "scoring function dock6 unknown")
}

func TestScoringFunction_Family(t *testing.T) {
	assert.Equal(t, FamilyVina, ScoringVina.Family())
	assert.Equal(t, FamilyVina, ScoringVinardo.Family())
	assert.Equal(t, FamilyAD4, ScoringAD4.Family())
}

func TestResolveMode_Priority(t *testing.T) {
	tests := []struct {
		name                   string
		randomize, score, local bool
		want                   Mode
	}{
		{"none", false, false, false, ModeGlobalSearch},
		{"all", true, true, true, ModeRandomize},
		{"score and local", false, true, true, ModeScoreOnly},
		{"local", false, false, true, ModeLocalOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.randomize, tt.score, tt.local))
		})
	}
	assert.Equal(t, "score_only", ModeScoreOnly.String())
}

func TestExtent_BoxPadding(t *testing.T) {
	e := EmptyExtent()
	assert.True(t, e.Empty())

	e = e.Include(Vec3{0, 0, 0}).Include(Vec3{2, 4, 6})
	other := EmptyExtent().Include(Vec3{-2, 0, 0})
	e = e.Union(other).Union(EmptyExtent())

	b := e.Box(4)
	assert.Equal(t, Vec3{0, 2, 3}, b.Center)
	assert.Equal(t, Vec3{8, 8, 10}, b.Size)
	assert.True(t, b.Valid())
	assert.InDelta(t, 640.0, b.Volume(), 1e-9)
}

func TestBox_Valid(t *testing.T) {
	assert.False(t, Box{Size: Vec3{1, 0, 1}}.Valid())
	assert.True(t, Box{Size: Vec3{20, 20, 20}}.Valid())
}

//Personal.AI order the ending
