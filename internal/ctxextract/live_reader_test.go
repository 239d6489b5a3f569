package ctxextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/models"
)

func TestLiveReader_PositionContexts_ClassifiesAboveWithinRadius(t *testing.T) {
	boxes := map[string]models.BoundingBox{
		"e1": {X: 100, Y: 100, Width: 100, Height: 20},
	}
	blocks := []TextBlock{
		{Text: "メールアドレス", Box: models.BoundingBox{X: 100, Y: 60, Width: 100, Height: 20}},
	}
	r := NewLiveReader(&fakeReader{}, boxes, blocks)

	got := r.PositionContexts("e1", 150)

	require.Len(t, got, 1)
	assert.Equal(t, models.SourcePositionAbove, got[0].SourceType)
	assert.Equal(t, "メールアドレス", got[0].Text)
	assert.InDelta(t, 20, got[0].DistancePx, 0.001)
	assert.Greater(t, got[0].Confidence, 0.0)
}

func TestLiveReader_PositionContexts_FallsBackToNearbyWithoutAxisOverlap(t *testing.T) {
	boxes := map[string]models.BoundingBox{
		"e1": {X: 100, Y: 100, Width: 20, Height: 20},
	}
	blocks := []TextBlock{
		{Text: "備考", Box: models.BoundingBox{X: 140, Y: 140, Width: 20, Height: 20}},
	}
	r := NewLiveReader(&fakeReader{}, boxes, blocks)

	got := r.PositionContexts("e1", 150)

	require.Len(t, got, 1)
	assert.Equal(t, models.SourcePositionNearby, got[0].SourceType)
}

func TestLiveReader_PositionContexts_DropsBlocksOutsideRadius(t *testing.T) {
	boxes := map[string]models.BoundingBox{
		"e1": {X: 0, Y: 0, Width: 20, Height: 20},
	}
	blocks := []TextBlock{
		{Text: "far away", Box: models.BoundingBox{X: 0, Y: 1000, Width: 20, Height: 20}},
	}
	r := NewLiveReader(&fakeReader{}, boxes, blocks)

	assert.Empty(t, r.PositionContexts("e1", 150))
}

func TestLiveReader_PositionContexts_UnknownElementReturnsNil(t *testing.T) {
	r := NewLiveReader(&fakeReader{}, map[string]models.BoundingBox{}, nil)

	assert.Nil(t, r.PositionContexts("missing", 150))
}
