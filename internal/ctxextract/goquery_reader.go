package ctxextract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/formsender/core/internal/models"
)

// GoqueryReader implements Reader over a parsed static HTML snapshot, the
// non-live code path named in SPEC_FULL.md §11's goquery row: used when the
// driver exposes rendered HTML instead of a live locator tree (e.g. a
// pre-submit snapshot diffed for C11, or offline catalog/scorer testing).
type GoqueryReader struct {
	doc   *goquery.Document
	index *Index
	byID  map[string]*goquery.Selection
}

// NewGoqueryReader parses html and builds the dl/dt/dd and table/th/td
// indexes once, up front, matching the "single batch script" construction
// described in SPEC_FULL.md §4.3.
func NewGoqueryReader(html string) (*GoqueryReader, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	r := &GoqueryReader{doc: doc, index: NewIndex(), byID: make(map[string]*goquery.Selection)}
	r.buildElementIndex()
	r.buildDTIndex()
	r.buildTHIndex()
	return r, nil
}

func (r *GoqueryReader) buildElementIndex() {
	r.doc.Find("input,select,textarea").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			r.byID[id] = s
		}
	})
}

func (r *GoqueryReader) buildDTIndex() {
	r.doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		var lastDT string
		dl.Children().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "dt":
				lastDT = strings.TrimSpace(child.Text())
			case "dd":
				if lastDT == "" {
					return
				}
				child.Find("input,select,textarea").Each(func(_ int, el *goquery.Selection) {
					if id, ok := el.Attr("id"); ok && id != "" {
						r.index.SetDT(id, lastDT)
					}
				})
			}
		})
	})
}

func (r *GoqueryReader) buildTHIndex() {
	r.doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			thText := strings.TrimSpace(tr.Find("th").First().Text())
			if thText == "" {
				// Fallback: adjacent label <td> in a two-column layout.
				tds := tr.Find("td")
				if tds.Length() >= 2 {
					thText = strings.TrimSpace(tds.First().Text())
				}
			}
			if thText == "" {
				return
			}
			tr.Find("input,select,textarea").Each(func(_ int, el *goquery.Selection) {
				if id, ok := el.Attr("id"); ok && id != "" {
					r.index.SetTH(id, thText)
				}
			})
		})
	})
}

func (r *GoqueryReader) selection(elementID string) (*goquery.Selection, bool) {
	s, ok := r.byID[elementID]
	return s, ok
}

func (r *GoqueryReader) LabelForText(elementID string) (string, bool) {
	text := strings.TrimSpace(r.doc.Find(`label[for="` + elementID + `"]`).First().Text())
	return text, text != ""
}

func (r *GoqueryReader) AncestorLabelText(elementID string) (string, bool) {
	s, ok := r.selection(elementID)
	if !ok {
		return "", false
	}
	label := s.Closest("label")
	if label.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(label.Text())
	return text, text != ""
}

func (r *GoqueryReader) AriaLabelledByText(elementID string) (string, bool) {
	s, ok := r.selection(elementID)
	if !ok {
		return "", false
	}
	ids, ok := s.Attr("aria-labelledby")
	if !ok || ids == "" {
		return "", false
	}
	var parts []string
	for _, id := range strings.Fields(ids) {
		t := strings.TrimSpace(r.doc.Find(`#` + id).First().Text())
		if t != "" {
			parts = append(parts, t)
		}
	}
	joined := strings.Join(parts, " ")
	return joined, joined != ""
}

func (r *GoqueryReader) ULLIHeadingText(elementID string) (string, bool) {
	s, ok := r.selection(elementID)
	if !ok {
		return "", false
	}
	li := s.Closest("li")
	if li.Length() == 0 {
		return "", false
	}
	var heading string
	li.PrevAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if goquery.NodeName(sib) != "li" {
			return true
		}
		text := strings.TrimSpace(sib.Text())
		if text == "" {
			return true
		}
		heading = text
		return false
	})
	return heading, heading != ""
}

func (r *GoqueryReader) ParentRemainderText(elementID string) (string, bool) {
	s, ok := r.selection(elementID)
	if !ok {
		return "", false
	}
	parent := s.Parent()
	remainder := strings.TrimSpace(parent.Text())
	parent.Children().Each(func(_ int, child *goquery.Selection) {
		if childText := strings.TrimSpace(child.Text()); childText != "" {
			remainder = strings.Replace(remainder, childText, "", 1)
		}
	})
	remainder = strings.TrimSpace(remainder)
	if len([]rune(remainder)) < 2 {
		return "", false
	}
	return remainder, true
}

func (r *GoqueryReader) DTIndexText(elementID string) (string, bool) {
	return r.index.DT(elementID)
}

func (r *GoqueryReader) THIndexText(elementID string) (string, bool) {
	return r.index.TH(elementID)
}

func (r *GoqueryReader) SiblingTexts(elementID string) (prev []string, next []string) {
	s, ok := r.selection(elementID)
	if !ok {
		return nil, nil
	}

	count := 0
	s.PrevAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if count >= 3 {
			return false
		}
		if isInputElement(sib) {
			return true
		}
		text := strings.TrimSpace(sib.Text())
		if text != "" {
			prev = append(prev, text)
			count++
		}
		return true
	})

	count = 0
	s.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if count >= 2 {
			return false
		}
		if isInputElement(sib) {
			return true
		}
		text := strings.TrimSpace(sib.Text())
		if text != "" {
			next = append(next, text)
			count++
		}
		return true
	})

	return prev, next
}

// PositionContexts is a no-op here: a parsed static HTML snapshot carries
// no layout, so proximity search has nothing to measure against. The
// orchestrator wraps this reader in a ctxextract.LiveReader, built from
// bounding boxes read off the live page, whenever a live driver is
// available; GoqueryReader alone is only reached directly by offline
// catalog/scorer tests, where position-based evidence is out of scope.
func (r *GoqueryReader) PositionContexts(elementID string, radiusPx float64) []models.TextContext {
	return nil
}

func isInputElement(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "input", "select", "textarea":
		return true
	}
	return false
}
