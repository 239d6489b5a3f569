// Package formscan extracts ElementDescriptor records and a per-page
// ctxextract.Reader from a page's rendered HTML, the step that runs
// immediately after C10 opens the page and before C4-C7 can run, per
// SPEC_FULL.md §2's control-flow line ("C10 opens page -> C3 builds
// indexes -> (per element) C4+C5+C6 ..."). It is deliberately built on the
// same goquery snapshot path internal/ctxextract.GoqueryReader documents as
// the "non-live" reader: the orchestrator pulls document.documentElement's
// outerHTML from the live browser driver via Evaluate once per page, so
// this package never needs its own DOM access.
package formscan

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/formsender/core/internal/ctxextract"
	"github.com/formsender/core/internal/models"
)

// interactiveTags are the elements the catalog ever assigns a logical field
// to, per SPEC_FULL.md §3's LogicalField.allowed_tags universe.
var interactiveTags = []string{"input", "select", "textarea"}

// Page is one page's extracted element set plus the context reader built
// over the same snapshot.
type Page struct {
	InForm      []models.ElementDescriptor
	OutsideForm []models.ElementDescriptor
	Reader      ctxextract.Reader

	// selectors maps ElementID to the CSS selector that addresses the same
	// element in the live DOM the HTML was captured from.
	selectors map[string]string
}

// Selector returns the CSS selector formscan computed for elementID, or ""
// if none could be derived (the element had neither id nor name).
func (p *Page) Selector(elementID string) string {
	return p.selectors[elementID]
}

// Scan parses html, builds every interactive ElementDescriptor split by
// form membership, and wraps the same document in a GoqueryReader for
// internal/ctxextract.
func Scan(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("formscan: parse html: %w", err)
	}
	reader, err := ctxextract.NewGoqueryReader(html)
	if err != nil {
		return nil, fmt.Errorf("formscan: build reader: %w", err)
	}

	p := &Page{Reader: reader, selectors: make(map[string]string)}

	seq := 0
	doc.Find(strings.Join(interactiveTags, ",")).Each(func(_ int, s *goquery.Selection) {
		seq++
		el := describe(s, seq)
		p.selectors[el.ElementID] = selectorFor(s, el)
		if inForm(s) {
			p.InForm = append(p.InForm, el)
		} else {
			p.OutsideForm = append(p.OutsideForm, el)
		}
	})

	return p, nil
}

func inForm(s *goquery.Selection) bool {
	return s.Closest("form").Length() > 0
}

func describe(s *goquery.Selection, seq int) models.ElementDescriptor {
	tag := goquery.NodeName(s)
	typ, _ := s.Attr("type")
	if tag == "textarea" || tag == "select" {
		typ = ""
	}
	name, _ := s.Attr("name")
	id, _ := s.Attr("id")
	class, _ := s.Attr("class")
	placeholder, _ := s.Attr("placeholder")
	value, _ := s.Attr("value")
	if tag == "textarea" && value == "" {
		value = strings.TrimSpace(s.Text())
	}
	style, _ := s.Attr("style")
	tabindex, _ := s.Attr("tabindex")

	_, disabled := s.Attr("disabled")
	_, hidden := s.Attr("hidden")
	ariaHiddenAttr, _ := s.Attr("aria-hidden")

	el := models.ElementDescriptor{
		ElementID:   fmt.Sprintf("e%d", seq),
		TagName:     tag,
		Type:        typ,
		Name:        name,
		ID:          id,
		Class:       class,
		Placeholder: placeholder,
		Value:       value,
		Visible:     !hidden && typ != "hidden" && !strings.Contains(style, "display:none") && !strings.Contains(style, "display: none"),
		Enabled:     !disabled,
		Required:    hasRequired(s),
		Style:       style,
		AriaHidden:  ariaHiddenAttr == "true",
		TabIndex:    tabindex,
		LabelText:   choiceLabelText(s),
	}

	if tag == "select" {
		s.Find("option").Each(func(_ int, opt *goquery.Selection) {
			optValue, ok := opt.Attr("value")
			if !ok {
				optValue = strings.TrimSpace(opt.Text())
			}
			_, selected := opt.Attr("selected")
			el.Options = append(el.Options, models.SelectOption{
				Value:    optValue,
				Text:     strings.TrimSpace(opt.Text()),
				Selected: selected,
			})
		})
	}

	return el
}

func hasRequired(s *goquery.Selection) bool {
	if _, ok := s.Attr("required"); ok {
		return true
	}
	if v, ok := s.Attr("aria-required"); ok && v == "true" {
		return true
	}
	return false
}

// choiceLabelText resolves a checkbox/radio's associated label text, used
// by internal/unmapped's choice-priority matching.
func choiceLabelText(s *goquery.Selection) string {
	typ, _ := s.Attr("type")
	if typ != "checkbox" && typ != "radio" {
		return ""
	}
	if id, ok := s.Attr("id"); ok && id != "" {
		doc := s.Parents().Last()
		if label := doc.Find(`label[for="` + id + `"]`).First(); label.Length() > 0 {
			return strings.TrimSpace(label.Text())
		}
	}
	if label := s.Closest("label"); label.Length() > 0 {
		return strings.TrimSpace(label.Text())
	}
	return strings.TrimSpace(s.Parent().Text())
}

// selectorFor derives a CSS selector addressing the same live DOM node:
// #id when present, a name (plus value, for radio/checkbox groups)
// attribute selector otherwise, or "" when neither identifies the element.
func selectorFor(s *goquery.Selection, el models.ElementDescriptor) string {
	if el.ID != "" {
		return "#" + el.ID
	}
	if el.Name == "" {
		return ""
	}
	sel := fmt.Sprintf(`%s[name="%s"]`, el.TagName, el.Name)
	if (el.Type == "radio" || el.Type == "checkbox") && el.Value != "" {
		sel += fmt.Sprintf(`[value="%s"]`, el.Value)
	}
	return sel
}

