package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/models"
)

// fakeLocator is a scripted Locator test double: every field is a fixed
// answer, good enough to drive the engine's control flow without a browser.
type fakeLocator struct {
	count     int
	visible   bool
	enabled   bool
	checked   bool
	text      string
	attrs     map[string]string
	fillCalls *[]string

	driver       *fakeDriver
	clickSetsURL string
}

func (l *fakeLocator) Count(context.Context) (int, error)    { return l.count, nil }
func (l *fakeLocator) Visible(context.Context) (bool, error)  { return l.visible, nil }
func (l *fakeLocator) Enabled(context.Context) (bool, error)  { return l.enabled, nil }
func (l *fakeLocator) Checked(context.Context) (bool, error)  { return l.checked, nil }
func (l *fakeLocator) BoundingBox(context.Context) (models.BoundingBox, error) {
	return models.BoundingBox{}, nil
}
func (l *fakeLocator) TextContent(context.Context) (string, error) { return l.text, nil }
func (l *fakeLocator) GetAttribute(_ context.Context, name string) (string, error) {
	if l.attrs == nil {
		return "", nil
	}
	return l.attrs[name], nil
}
func (l *fakeLocator) Fill(_ context.Context, value string) error {
	if l.fillCalls != nil {
		*l.fillCalls = append(*l.fillCalls, value)
	}
	if l.attrs == nil {
		l.attrs = map[string]string{}
	}
	l.attrs["value"] = value
	return nil
}
func (l *fakeLocator) Check(context.Context) error   { l.checked = true; return nil }
func (l *fakeLocator) Uncheck(context.Context) error { l.checked = false; return nil }
func (l *fakeLocator) SelectOption(context.Context, browser.OptionSelector) error { return nil }
func (l *fakeLocator) Click(context.Context, time.Duration) error {
	if l.clickSetsURL != "" && l.driver != nil {
		l.driver.url = l.clickSetsURL
	}
	return nil
}
func (l *fakeLocator) ScrollIntoViewIfNeeded(context.Context) error               { return nil }
func (l *fakeLocator) WaitFor(context.Context, string, time.Duration) error       { return nil }

// fakeDriver is a scripted Driver test double keyed by selector/text.
type fakeDriver struct {
	url       string
	pageText  string
	title     string
	locators  map[string]*fakeLocator
	textLoc   map[string]*fakeLocator
	responses chan browser.ResponseEvent
}

func (d *fakeDriver) Goto(context.Context, string, time.Duration) (int, error) { return 200, nil }
func (d *fakeDriver) Evaluate(context.Context, string, ...any) (any, error)    { return false, nil }
func (d *fakeDriver) Locator(selector string) browser.Locator {
	if l, ok := d.locators[selector]; ok {
		return l
	}
	return &fakeLocator{count: 0}
}
func (d *fakeDriver) ElementByText(tag, text string) browser.Locator {
	if l, ok := d.textLoc[tag+"|"+text]; ok {
		return l
	}
	return &fakeLocator{count: 0}
}
func (d *fakeDriver) Responses() <-chan browser.ResponseEvent { return d.responses }
func (d *fakeDriver) WaitForLoadState(context.Context, string, time.Duration) error { return nil }
func (d *fakeDriver) PageText(context.Context) (string, error)                     { return d.pageText, nil }
func (d *fakeDriver) Title(context.Context) (string, error)                        { return d.title, nil }
func (d *fakeDriver) URL() string                                                  { return d.url }
func (d *fakeDriver) Close() error                                                 { return nil }

func baseMapping() *models.Mapping {
	m := models.NewMapping()
	m.Set("email", &models.FieldMapping{FieldName: "email", Selector: "#email"})
	return m
}

func fastBudgets() Budgets {
	return Budgets{
		PageLoad:           50 * time.Millisecond,
		ElementWait:        50 * time.Millisecond,
		Click:              50 * time.Millisecond,
		PreProcessing:      200 * time.Millisecond,
		DynamicMessageWait: 50 * time.Millisecond,
		DOMMonitoring:      10 * time.Millisecond,
		JSExecution:        50 * time.Millisecond,
	}
}

func TestRun_SuccessfulSubmitURLChangeYieldsStage1(t *testing.T) {
	driver := &fakeDriver{
		url:       "https://example.test/form",
		pageText:  "",
		title:     "",
		responses: make(chan browser.ResponseEvent),
		locators: map[string]*fakeLocator{
			"form":  {count: 1},
			"#email": {count: 1, attrs: map[string]string{}},
		},
		textLoc: map[string]*fakeLocator{
			"button|送信": {count: 1, visible: true, enabled: true, text: "送信"},
		},
	}
	driver.textLoc["button|送信"].driver = driver
	driver.textLoc["button|送信"].clickSetsURL = "https://example.test/thanks"

	e := NewWithOptions(driver, WithBudgets(fastBudgets()))
	mapping := baseMapping()
	client := models.Client{Email1: "taro@example.com"}

	v := e.Run(context.Background(), 1, "https://example.test/form", client, mapping)

	require.True(t, v.Success)
	assert.Equal(t, 1, v.Stage)
	assert.Equal(t, "url_change", v.StageName)
}

func TestRun_SubmitButtonNotFoundYieldsFormStructureError(t *testing.T) {
	driver := &fakeDriver{
		url:       "https://example.test/form",
		responses: make(chan browser.ResponseEvent),
		locators: map[string]*fakeLocator{
			"form": {count: 1},
		},
		textLoc: map[string]*fakeLocator{},
	}

	e := NewWithOptions(driver, WithBudgets(fastBudgets()))
	mapping := baseMapping()

	v := e.Run(context.Background(), 2, "https://example.test/form", models.Client{}, mapping)

	require.False(t, v.Success)
	assert.Equal(t, "SUBMIT_BUTTON_NOT_FOUND", v.ErrorCode)
	assert.Equal(t, models.CategoryFormStructure, v.ErrorCategory)
}

func TestRun_RateLimitResponseYieldsRetryableVerdict(t *testing.T) {
	responses := make(chan browser.ResponseEvent, 1)
	responses <- browser.ResponseEvent{URL: "https://example.test/form", Status: 429}

	driver := &fakeDriver{
		url:       "https://example.test/form",
		pageText:  "",
		responses: responses,
		locators: map[string]*fakeLocator{
			"form":  {count: 1},
			"#email": {count: 1, attrs: map[string]string{}},
		},
		textLoc: map[string]*fakeLocator{
			"button|送信": {count: 1, visible: true, enabled: true, text: "送信"},
		},
	}

	e := NewWithOptions(driver, WithBudgets(fastBudgets()))
	mapping := baseMapping()

	v := e.Run(context.Background(), 3, "https://example.test/form", models.Client{Email1: "taro@example.com"}, mapping)

	require.False(t, v.Success)
	assert.Equal(t, "RATE_LIMIT", v.ErrorCode)
	assert.True(t, v.Retryable)
	assert.Equal(t, 300, v.CooldownSeconds)
}
