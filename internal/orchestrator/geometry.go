package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/ctxextract"
	"github.com/formsender/core/internal/formscan"
	"github.com/formsender/core/internal/models"
)

// textBlockScript collects every visible leaf text node's live bounding
// box in one batch call, mirroring the "single batch script" construction
// internal/ctxextract's goquery path documents for the static case.
const textBlockScript = `() => {
	const out = [];
	const tags = ['label','span','div','p','td','th','li','legend','strong','em','b','a'];
	for (const tag of tags) {
		for (const el of document.getElementsByTagName(tag)) {
			if (el.children.length > 0) continue;
			const text = (el.textContent || '').trim();
			if (!text) continue;
			const r = el.getBoundingClientRect();
			if (r.width === 0 && r.height === 0) continue;
			out.push({text: text, x: r.x, y: r.y, width: r.width, height: r.height});
		}
	}
	return out;
}`

type rawTextBlock struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// gatherGeometry reads every element's live bounding box plus the page's
// text-block layout, so PositionContexts (SPEC_FULL.md §4.3 step 7) and the
// off-screen honeypot penalty (§4.5) run against real layout instead of the
// static-HTML snapshot's always-empty view. Geometry is best-effort
// evidence: a failed Locator or Evaluate call degrades to an empty result
// rather than aborting process_one.
func gatherGeometry(ctx context.Context, driver browser.Driver, page *formscan.Page) (map[string]models.BoundingBox, []ctxextract.TextBlock) {
	boxes := make(map[string]models.BoundingBox)
	for _, el := range page.InForm {
		if box, ok := elementBox(ctx, driver, page, el.ElementID); ok {
			boxes[el.ElementID] = box
		}
	}
	for _, el := range page.OutsideForm {
		if box, ok := elementBox(ctx, driver, page, el.ElementID); ok {
			boxes[el.ElementID] = box
		}
	}

	var blocks []ctxextract.TextBlock
	raw, err := driver.Evaluate(ctx, textBlockScript)
	if err == nil && raw != nil {
		if data, merr := json.Marshal(raw); merr == nil {
			var parsed []rawTextBlock
			if json.Unmarshal(data, &parsed) == nil {
				for _, b := range parsed {
					blocks = append(blocks, ctxextract.TextBlock{
						Text: b.Text,
						Box:  models.BoundingBox{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
					})
				}
			}
		}
	}

	return boxes, blocks
}

func elementBox(ctx context.Context, driver browser.Driver, page *formscan.Page, elementID string) (models.BoundingBox, bool) {
	sel := page.Selector(elementID)
	if sel == "" {
		return models.BoundingBox{}, false
	}
	box, err := driver.Locator(sel).BoundingBox(ctx)
	if err != nil {
		return models.BoundingBox{}, false
	}
	return box, true
}

// applyGeometry copies live bounding boxes onto each element descriptor so
// internal/penalty's off-screen honeypot check (§4.5) sees real layout
// instead of the zero value every static-HTML descriptor otherwise carries.
func applyGeometry(page *formscan.Page, boxes map[string]models.BoundingBox) {
	for i := range page.InForm {
		if box, ok := boxes[page.InForm[i].ElementID]; ok {
			page.InForm[i].BoundingBox = box
		}
	}
	for i := range page.OutsideForm {
		if box, ok := boxes[page.OutsideForm[i].ElementID]; ok {
			page.OutsideForm[i].BoundingBox = box
		}
	}
}
