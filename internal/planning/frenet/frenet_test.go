package frenet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrenetFramePath_Empty(t *testing.T) {
	var nilPath *FrenetFramePath
	assert.True(t, nilPath.Empty())
	assert.Equal(t, 0, nilPath.NumPoints())

	p := NewFrenetFramePath(nil)
	assert.True(t, p.Empty())
	assert.Equal(t, FrenetFramePoint{}, p.Front())
	assert.Equal(t, FrenetFramePoint{}, p.Back())
	assert.Equal(t, FrenetFramePoint{}, p.EvaluateByS(3))
	assert.False(t, p.Contains(0))
	assert.Zero(t, p.Length())
}

func TestFrenetFramePath_CopiesInput(t *testing.T) {
	pts := []FrenetFramePoint{{S: 0, L: 1}, {S: 1, L: 2}}
	p := NewFrenetFramePath(pts)
	pts[0].L = 99
	assert.Equal(t, 1.0, p.Front().L)
}

func TestFrenetFramePath_EvaluateByS(t *testing.T) {
	p := NewFrenetFramePath([]FrenetFramePoint{
		{S: 0, L: 0, DL: 0},
		{S: 10, L: 1, DL: 0.2},
		{S: 20, L: -1, DL: -0.2},
	})

	tests := []struct {
		name  string
		s     float64
		wantL float64
	}{
		{"before start clamps to first", -5, 0},
		{"on first point", 0, 0},
		{"midway first segment", 5, 0.5},
		{"on interior knot", 10, 1},
		{"quarter second segment", 12.5, 0.5},
		{"on last point", 20, -1},
		{"beyond end clamps to last", 25, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.EvaluateByS(tt.s)
			assert.InDelta(t, tt.wantL, got.L, 1e-9)
		})
	}

	mid := p.EvaluateByS(5)
	assert.InDelta(t, 0.1, mid.DL, 1e-9)
	assert.Equal(t, 5.0, mid.S)
}

func TestFrenetFramePath_EvaluateByS_DuplicateS(t *testing.T) {
	// Repeated s values are allowed; lookup resolves to the first point of
	// the repeated group.
	p := NewFrenetFramePath([]FrenetFramePoint{
		{S: 0, L: 0},
		{S: 10, L: 2},
		{S: 10, L: 4},
		{S: 20, L: 4},
	})
	assert.InDelta(t, 2.0, p.EvaluateByS(10).L, 1e-9)
	assert.InDelta(t, 1.0, p.EvaluateByS(5).L, 1e-9)
	assert.InDelta(t, 4.0, p.EvaluateByS(15).L, 1e-9)
}

func TestFrenetFramePath_Validate(t *testing.T) {
	ok := NewFrenetFramePath([]FrenetFramePoint{{S: 0}, {S: 0}, {S: 1}})
	require.NoError(t, ok.Validate())

	bad := NewFrenetFramePath([]FrenetFramePoint{{S: 0}, {S: 2}, {S: 1}})
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonMonotonicPath))
}

func TestFrenetFramePath_Contains(t *testing.T) {
	p := NewFrenetFramePath([]FrenetFramePoint{{S: 5}, {S: 50}})
	assert.True(t, p.Contains(5))
	assert.True(t, p.Contains(50))
	assert.True(t, p.Contains(20))
	assert.False(t, p.Contains(4.999))
	assert.False(t, p.Contains(math.Nextafter(50, 51)))
	assert.Equal(t, 45.0, p.Length())
}

func TestSLBoundary(t *testing.T) {
	b := SLBoundary{StartS: 20, EndS: 22, StartL: -0.5, EndL: 0.5}
	assert.Equal(t, 1.0, b.Width())
	assert.Equal(t, 2.0, b.Length())
	require.NoError(t, b.Validate())
	assert.Equal(t, "s[20.00, 22.00] l[-0.50, 0.50]", b.String())

	assert.Error(t, SLBoundary{StartS: 2, EndS: 1}.Validate())
	assert.Error(t, SLBoundary{StartL: 2, EndL: 1}.Validate())
}
