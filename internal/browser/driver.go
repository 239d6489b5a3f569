// Package browser defines the Browser Driver Interface (§6) the submission
// engine drives, plus a go-rod-backed implementation of it.
package browser

import (
	"context"
	"time"

	"github.com/formsender/core/internal/models"
)

// OptionSelector picks a <select> option by one of three strategies; exactly
// one field is set.
type OptionSelector struct {
	Value string
	Label string
	Index *int
}

// ResponseEvent mirrors one network response observed during AWAIT_RESULT,
// per §6's "response event stream with {url, status, request.method, headers}".
type ResponseEvent struct {
	URL           string
	Status        int
	RequestMethod string
	Headers       map[string]string
}

// Locator addresses zero or more elements matching a selector, resolved lazily
// on each call so staleness after a navigation never outlives one operation.
type Locator interface {
	Count(ctx context.Context) (int, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	Checked(ctx context.Context) (bool, error)
	BoundingBox(ctx context.Context) (models.BoundingBox, error)
	TextContent(ctx context.Context) (string, error)
	GetAttribute(ctx context.Context, name string) (string, error)
	Fill(ctx context.Context, value string) error
	Check(ctx context.Context) error
	Uncheck(ctx context.Context) error
	SelectOption(ctx context.Context, sel OptionSelector) error
	Click(ctx context.Context, timeout time.Duration) error
	ScrollIntoViewIfNeeded(ctx context.Context) error
	WaitFor(ctx context.Context, state string, timeout time.Duration) error
}

// Driver is the Browser Driver Interface consumed by internal/submission.
// Non-goals per §1 exclude the headless runtime itself; this interface is
// the seam a concrete go-rod/Playwright-equivalent implementation fills.
type Driver interface {
	Goto(ctx context.Context, url string, timeout time.Duration) (status int, err error)
	Evaluate(ctx context.Context, script string, args ...any) (any, error)
	Locator(selector string) Locator
	// ElementByText builds a Locator from a tag name plus an allowlist of
	// accessible-text matches, used by submit-button location (no CSS
	// selector names the button reliably across target sites).
	ElementByText(tag string, text string) Locator
	Responses() <-chan ResponseEvent
	WaitForLoadState(ctx context.Context, state string, timeout time.Duration) error
	PageText(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	URL() string
	Close() error
}
