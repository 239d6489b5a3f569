package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/formsender/core/internal/models"
)

// RodDriver implements Driver over a single *rod.Page, grounded on the
// session/event patterns of the pack's go-rod browser package (page.Context,
// EachEvent, Element, Eval).
type RodDriver struct {
	page *rod.Page

	mu       sync.Mutex
	url      string
	respCh   chan ResponseEvent
	stopFeed func()
}

// NewRodDriver wires a started page into a Driver. The caller owns the
// underlying *rod.Browser/page lifecycle beyond Close.
func NewRodDriver(page *rod.Page) *RodDriver {
	d := &RodDriver{page: page, respCh: make(chan ResponseEvent, 256)}
	d.startResponseFeed()
	return d
}

func (d *RodDriver) startResponseFeed() {
	wait := d.page.EachEvent(func(ev *proto.NetworkResponseReceived) {
		headers := make(map[string]string, len(ev.Response.Headers))
		for k, v := range ev.Response.Headers {
			headers[k] = fmt.Sprintf("%v", v)
		}
		method := ""
		if ev.Type == proto.NetworkResourceTypeDocument {
			method = "GET"
		}
		select {
		case d.respCh <- ResponseEvent{
			URL:           ev.Response.URL,
			Status:        ev.Response.Status,
			RequestMethod: method,
			Headers:       headers,
		}:
		default:
		}
	})
	stop := make(chan struct{})
	go func() {
		done := make(chan struct{})
		go func() { wait(); close(done) }()
		select {
		case <-done:
		case <-stop:
		}
	}()
	d.stopFeed = func() { close(stop) }
}

func (d *RodDriver) Goto(ctx context.Context, url string, timeout time.Duration) (int, error) {
	status := 0
	var once sync.Once
	wait := d.page.Context(ctx).EachEvent(func(ev *proto.NetworkResponseReceived) (stop bool) {
		if ev.Type == proto.NetworkResourceTypeDocument {
			once.Do(func() { status = ev.Response.Status })
			return true
		}
		return false
	})

	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := d.page.Context(navCtx).Navigate(url); err != nil {
		return 0, fmt.Errorf("navigate %s: %w", url, err)
	}

	doneCh := make(chan struct{})
	go func() { wait(); close(doneCh) }()
	select {
	case <-doneCh:
	case <-time.After(timeout):
	case <-navCtx.Done():
	}

	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
	if status == 0 {
		status = 200
	}
	return status, nil
}

func (d *RodDriver) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	res, err := d.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           script,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if res == nil || res.Value.Nil() {
		return nil, nil
	}
	var out any
	if err := res.Value.Unmarshal(&out); err != nil {
		return res.Value.String(), nil
	}
	return out, nil
}

func (d *RodDriver) Locator(selector string) Locator {
	return &rodLocator{page: d.page, selector: selector}
}

func (d *RodDriver) ElementByText(tag string, text string) Locator {
	return &rodLocator{page: d.page, selector: tag, matchText: text}
}

func (d *RodDriver) Responses() <-chan ResponseEvent {
	return d.respCh
}

func (d *RodDriver) WaitForLoadState(ctx context.Context, state string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	p := d.page.Context(waitCtx)
	switch state {
	case "networkidle":
		return p.WaitIdle(timeout)
	default:
		return p.WaitLoad()
	}
}

func (d *RodDriver) PageText(ctx context.Context) (string, error) {
	v, err := d.Evaluate(ctx, `() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (d *RodDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

func (d *RodDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url != "" {
		return d.url
	}
	info, err := d.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (d *RodDriver) Close() error {
	if d.stopFeed != nil {
		d.stopFeed()
	}
	return d.page.Close()
}

// rodLocator resolves its element fresh on every call, grounded on
// session_manager.go's page.Context(ctx).Element(selector) pattern.
type rodLocator struct {
	page      *rod.Page
	selector  string
	matchText string
}

func (l *rodLocator) elements(ctx context.Context) ([]*rod.Element, error) {
	if l.matchText == "" {
		els, err := l.page.Context(ctx).Elements(l.selector)
		if err != nil {
			return nil, err
		}
		return els, nil
	}
	all, err := l.page.Context(ctx).Elements(l.selector)
	if err != nil {
		return nil, err
	}
	var out []*rod.Element
	for _, el := range all {
		txt, err := el.Text()
		if err == nil && containsFold(txt, l.matchText) {
			out = append(out, el)
			continue
		}
		if val, err := el.Attribute("value"); err == nil && val != nil && containsFold(*val, l.matchText) {
			out = append(out, el)
		}
	}
	return out, nil
}

func (l *rodLocator) first(ctx context.Context) (*rod.Element, error) {
	els, err := l.elements(ctx)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("no element matches %q", l.selector)
	}
	return els[0], nil
}

func (l *rodLocator) Count(ctx context.Context) (int, error) {
	els, err := l.elements(ctx)
	if err != nil {
		return 0, nil
	}
	return len(els), nil
}

func (l *rodLocator) Visible(ctx context.Context) (bool, error) {
	el, err := l.first(ctx)
	if err != nil {
		return false, err
	}
	return el.Visible()
}

func (l *rodLocator) Enabled(ctx context.Context) (bool, error) {
	el, err := l.first(ctx)
	if err != nil {
		return false, err
	}
	v, err := el.Eval(`() => !this.disabled`)
	if err != nil {
		return false, err
	}
	return v.Value.Bool(), nil
}

func (l *rodLocator) Checked(ctx context.Context) (bool, error) {
	el, err := l.first(ctx)
	if err != nil {
		return false, err
	}
	v, err := el.Eval(`() => !!this.checked`)
	if err != nil {
		return false, err
	}
	return v.Value.Bool(), nil
}

func (l *rodLocator) BoundingBox(ctx context.Context) (models.BoundingBox, error) {
	el, err := l.first(ctx)
	if err != nil {
		return models.BoundingBox{}, err
	}
	shape, err := el.Shape()
	if err != nil || shape == nil || len(shape.Quads) == 0 {
		return models.BoundingBox{}, err
	}
	q := shape.Quads[0]
	return models.BoundingBox{
		X:      q[0],
		Y:      q[1],
		Width:  q[2] - q[0],
		Height: q[5] - q[1],
	}, nil
}

func (l *rodLocator) TextContent(ctx context.Context) (string, error) {
	el, err := l.first(ctx)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (l *rodLocator) GetAttribute(ctx context.Context, name string) (string, error) {
	el, err := l.first(ctx)
	if err != nil {
		return "", err
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

func (l *rodLocator) Fill(ctx context.Context, value string) error {
	el, err := l.first(ctx)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	return el.Input(value)
}

func (l *rodLocator) Check(ctx context.Context) error {
	el, err := l.first(ctx)
	if err != nil {
		return err
	}
	checked, _ := el.Eval(`() => !!this.checked`)
	if checked != nil && checked.Value.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (l *rodLocator) Uncheck(ctx context.Context) error {
	el, err := l.first(ctx)
	if err != nil {
		return err
	}
	checked, _ := el.Eval(`() => !!this.checked`)
	if checked == nil || !checked.Value.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (l *rodLocator) SelectOption(ctx context.Context, sel OptionSelector) error {
	el, err := l.first(ctx)
	if err != nil {
		return err
	}
	switch {
	case sel.Value != "":
		return el.Select([]string{fmt.Sprintf("[value=%q]", sel.Value)}, true, rod.SelectorTypeCSSSector)
	case sel.Label != "":
		return el.Select([]string{sel.Label}, true, rod.SelectorTypeText)
	case sel.Index != nil:
		_, err := el.Eval(`(idx) => { this.selectedIndex = idx; this.dispatchEvent(new Event('change', {bubbles:true})); }`, *sel.Index)
		return err
	}
	return fmt.Errorf("select_option: no selector strategy given")
}

func (l *rodLocator) Click(ctx context.Context, timeout time.Duration) error {
	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	el, err := l.first(clickCtx)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		_, jsErr := el.Eval(`() => this.click()`)
		if jsErr != nil {
			return fmt.Errorf("click (with JS fallback): %w (js: %v)", err, jsErr)
		}
	}
	return nil
}

func (l *rodLocator) ScrollIntoViewIfNeeded(ctx context.Context) error {
	el, err := l.first(ctx)
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}

func (l *rodLocator) WaitFor(ctx context.Context, state string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	switch state {
	case "visible":
		el, err := l.first(waitCtx)
		if err != nil {
			return err
		}
		return el.Context(waitCtx).WaitVisible()
	case "enabled":
		el, err := l.first(waitCtx)
		if err != nil {
			return err
		}
		return el.Context(waitCtx).WaitEnabled()
	case "attached":
		_, err := l.first(waitCtx)
		return err
	default:
		_, err := l.first(waitCtx)
		return err
	}
}

func containsFold(haystack, needle string) bool {
	return len(needle) > 0 && indexFold(haystack, needle) >= 0
}

func indexFold(haystack, needle string) int {
	hl, nl := []rune(toLowerASCIIAware(haystack)), []rune(toLowerASCIIAware(needle))
	if len(nl) == 0 || len(nl) > len(hl) {
		if len(nl) == 0 {
			return 0
		}
		return -1
	}
	for i := 0; i+len(nl) <= len(hl); i++ {
		match := true
		for j := range nl {
			if hl[i+j] != nl[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toLowerASCIIAware(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}
