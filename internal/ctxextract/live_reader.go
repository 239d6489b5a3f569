package ctxextract

import (
	"math"

	"github.com/formsender/core/internal/models"
)

// TextBlock is one rendered piece of page text with its live bounding box,
// a candidate for the proximity search PositionContexts performs.
type TextBlock struct {
	Text string
	Box  models.BoundingBox
}

// positionConfidenceBase and nearbyConfidenceBase are the un-decayed
// confidence a directional vs. nearby position hit starts from, per
// SPEC_FULL.md §4.3's "position_weight and the distance decay".
const (
	positionConfidenceBase = 0.55
	nearbyConfidenceBase   = 0.4
)

// LiveReader augments a base Reader (typically a GoqueryReader built over a
// static snapshot) with bounding boxes read from the live page, so
// PositionContexts runs real proximity search instead of the static path's
// always-nil implementation.
type LiveReader struct {
	Reader
	boxes  map[string]models.BoundingBox
	blocks []TextBlock
}

// NewLiveReader wraps base, answering PositionContexts from boxes/blocks
// gathered from the live DOM (see internal/orchestrator's gatherGeometry)
// instead of deferring to base's own implementation.
func NewLiveReader(base Reader, boxes map[string]models.BoundingBox, blocks []TextBlock) *LiveReader {
	return &LiveReader{Reader: base, boxes: boxes, blocks: blocks}
}

// PositionContexts implements SPEC_FULL.md §4.3 step 7: every text block
// within radiusPx of elementID's live bounding box, classified into
// above/below/left/right/nearby with confidence decaying by distance.
func (r *LiveReader) PositionContexts(elementID string, radiusPx float64) []models.TextContext {
	box, ok := r.boxes[elementID]
	if !ok || (box.Width == 0 && box.Height == 0) {
		return nil
	}

	var out []models.TextContext
	for _, b := range r.blocks {
		source, distance, ok := classifyPosition(box, b.Box, radiusPx)
		if !ok {
			continue
		}
		out = append(out, models.TextContext{
			Text:             b.Text,
			SourceType:       source,
			Confidence:       positionConfidence(source, distance, radiusPx),
			PositionRelative: string(source),
			DistancePx:       distance,
		})
	}
	return out
}

// classifyPosition reports the directional relationship of a candidate text
// block to an element's box and the edge-to-edge distance between them. A
// block sharing an axis of overlap with the element is classified
// directionally (above/below/left/right); everything else within radiusPx
// falls back to nearby, measured center to center.
func classifyPosition(el, block models.BoundingBox, radiusPx float64) (models.SourceType, float64, bool) {
	horizontalOverlap := el.X < block.X+block.Width && block.X < el.X+el.Width
	verticalOverlap := el.Y < block.Y+block.Height && block.Y < el.Y+el.Height

	switch {
	case horizontalOverlap && block.Y+block.Height <= el.Y:
		if d := el.Y - (block.Y + block.Height); d <= radiusPx {
			return models.SourcePositionAbove, d, true
		}
	case horizontalOverlap && block.Y >= el.Y+el.Height:
		if d := block.Y - (el.Y + el.Height); d <= radiusPx {
			return models.SourcePositionBelow, d, true
		}
	case verticalOverlap && block.X+block.Width <= el.X:
		if d := el.X - (block.X + block.Width); d <= radiusPx {
			return models.SourcePositionLeft, d, true
		}
	case verticalOverlap && block.X >= el.X+el.Width:
		if d := block.X - (el.X + el.Width); d <= radiusPx {
			return models.SourcePositionRight, d, true
		}
	}

	elCenterX, elCenterY := el.X+el.Width/2, el.Y+el.Height/2
	blockCenterX, blockCenterY := block.X+block.Width/2, block.Y+block.Height/2
	d := math.Hypot(elCenterX-blockCenterX, elCenterY-blockCenterY)
	if d <= radiusPx {
		return models.SourcePositionNearby, d, true
	}
	return "", 0, false
}

// positionConfidence decays linearly with distance across [0, radiusPx].
func positionConfidence(source models.SourceType, distancePx, radiusPx float64) float64 {
	base := positionConfidenceBase
	if source == models.SourcePositionNearby {
		base = nearbyConfidenceBase
	}
	if radiusPx <= 0 {
		return base
	}
	decay := 1 - distancePx/radiusPx
	if decay < 0 {
		decay = 0
	}
	return base * decay
}
