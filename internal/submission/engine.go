package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/errclass"
	"github.com/formsender/core/internal/eventstream"
	"github.com/formsender/core/internal/judge"
	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/values"
)

// State names the submission state machine's nodes, per SPEC_FULL.md §4.10.
type State string

const (
	StateIdle                  State = "IDLE"
	StateFilled                State = "FILLED"
	StateAwaitConfirmationPage State = "AWAIT_CONFIRMATION_PAGE"
	StateAwaitResult           State = "AWAIT_RESULT"
	StateSubmittedOK           State = "SUBMITTED_OK"
	StateSubmittedFailed       State = "SUBMITTED_FAILED"
)

// Engine drives one submission attempt through the state machine described
// in SPEC_FULL.md §4.10, consuming a Browser Driver Interface and producing
// a Verdict via the Success Judge (C11) and Error Classifier (C12).
type Engine struct {
	driver     browser.Driver
	assigner   *values.Assigner
	judge      *judge.Judge
	classifier *errclass.Classifier
	budgets    Budgets
	keywords   Keywords
}

// New builds an Engine with every collaborator at its default
// configuration, the way an embedding orchestrator wires one per page.
func New(driver browser.Driver) *Engine {
	return &Engine{
		driver:     driver,
		assigner:   values.New(values.DefaultOptions()),
		judge:      judge.New(),
		classifier: errclass.New(),
		budgets:    DefaultBudgets(),
		keywords:   DefaultKeywords(),
	}
}

// Option customizes an Engine's collaborators or tuning away from defaults.
type Option func(*Engine)

func WithBudgets(b Budgets) Option           { return func(e *Engine) { e.budgets = b } }
func WithKeywords(kw Keywords) Option        { return func(e *Engine) { e.keywords = kw } }
func WithAssigner(a *values.Assigner) Option { return func(e *Engine) { e.assigner = a } }

// NewWithOptions applies functional options over New's defaults.
func NewWithOptions(driver browser.Driver, opts ...Option) *Engine {
	e := New(driver)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives url through fill -> submit -> await-result -> judge and
// returns a Verdict. recordID flows through untouched per §6.
func (e *Engine) Run(ctx context.Context, recordID int, url string, client models.Client, mapping *models.Mapping) models.Verdict {
	preCtx, cancel := context.WithTimeout(ctx, e.budgets.PreProcessing)
	defer cancel()

	status, err := e.driver.Goto(preCtx, url, e.budgets.PageLoad)
	if err != nil {
		return e.failureVerdict(recordID, status, err, "")
	}

	e.applyAssignments(preCtx, mapping, client)

	formLoc := e.driver.Locator("form")
	populated := countPopulated(mapping)

	btnLoc, kind, err := locateButton(preCtx, e.driver, e.keywords, false)
	if err != nil {
		detail := errclass.Detail{Code: errclass.SubmitButtonNotFound, Category: models.CategoryFormStructure, Confidence: 0.9}
		return verdictFromDetail(recordID, StateSubmittedFailed, detail, "submit button not located")
	}

	if _, consentErr := ensureConsent(preCtx, e.driver, e.keywords.Consent); consentErr != nil {
		// Consent-handling failure is absorbed per §7; a missing or already
		// satisfied consent checkbox is not itself a submission failure.
		_ = consentErr
	}

	if err := waitClickable(preCtx, btnLoc, e.budgets.ElementWait); err != nil {
		detail := errclass.Detail{Code: errclass.ElementNotInteractable, Category: models.CategoryBrowser, Confidence: 0.7}
		return verdictFromDetail(recordID, StateSubmittedFailed, detail, err.Error())
	}

	pre := capturePreSnapshot(preCtx, e.driver, formLoc, btnLoc, populated)

	hub := eventstream.NewHub()
	go hub.Run()
	defer hub.Close()

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go forwardResponses(monitorCtx, e.driver, hub)

	if err := armMutationObserver(preCtx, e.driver); err != nil {
		_ = err // best effort; stage 4 simply won't fire
	}

	if err := btnLoc.Click(preCtx, e.budgets.Click); err != nil {
		detail := errclass.Detail{Code: errclass.SubmitButtonError, Category: models.CategoryFormStructure, Confidence: 0.7}
		return verdictFromDetail(recordID, StateSubmittedFailed, detail, err.Error())
	}

	state := StateAwaitResult
	if kind == ButtonConfirmation {
		state = StateAwaitConfirmationPage
		for hop := 0; hop < maxConfirmationHops && kind == ButtonConfirmation; hop++ {
			_ = e.driver.WaitForLoadState(preCtx, "networkidle", e.budgets.PageLoad)
			var nextErr error
			btnLoc, kind, nextErr = locateButton(preCtx, e.driver, e.keywords, true)
			if nextErr != nil {
				detail := errclass.Detail{Code: errclass.SubmitButtonNotFound, Category: models.CategoryFormStructure, Confidence: 0.85}
				return verdictFromDetail(recordID, StateSubmittedFailed, detail, "confirmation page submit button not located")
			}
			if err := waitClickable(preCtx, btnLoc, e.budgets.ElementWait); err != nil {
				detail := errclass.Detail{Code: errclass.ElementNotInteractable, Category: models.CategoryBrowser, Confidence: 0.7}
				return verdictFromDetail(recordID, StateSubmittedFailed, detail, err.Error())
			}
			if err := btnLoc.Click(preCtx, e.budgets.Click); err != nil {
				detail := errclass.Detail{Code: errclass.SubmitButtonError, Category: models.CategoryFormStructure, Confidence: 0.7}
				return verdictFromDetail(recordID, StateSubmittedFailed, detail, err.Error())
			}
		}
		state = StateAwaitResult
	}
	_ = state

	resultCtx, cancelResult := context.WithTimeout(ctx, e.budgets.DOMMonitoring)
	defer cancelResult()
	<-resultCtx.Done()

	mutations := readMutationCount(ctx, e.driver)
	hub.Emit(eventstream.Event{Kind: eventstream.KindMutation, Mutations: mutations, Timestamp: time.Now()})

	post := capturePostState(ctx, e.driver, formLoc, btnLoc, mapping, mutations)

	verdictResult := e.judge.Evaluate(pre, post)

	if verdictResult.Success {
		return models.Verdict{
			RecordID:   recordID,
			Success:    true,
			Stage:      verdictResult.Stage,
			StageName:  verdictResult.StageName,
			Confidence: verdictResult.Confidence,
			Message:    verdictResult.Message,
		}
	}

	httpStatus := 0
	for _, s := range hub.ResponseStatuses() {
		if s >= 400 {
			httpStatus = s
			break
		}
	}
	detail := e.classifier.Classify(httpStatus, nil, post.PageText)
	return models.Verdict{
		RecordID:        recordID,
		Success:         false,
		Stage:           verdictResult.Stage,
		StageName:       verdictResult.StageName,
		Confidence:      verdictResult.Confidence,
		ErrorCode:       string(detail.Code),
		ErrorCategory:   detail.Category,
		Retryable:       detail.Retryable,
		CooldownSeconds: detail.CooldownSeconds,
		Message:         verdictResult.Message,
	}
}

func (e *Engine) applyAssignments(ctx context.Context, mapping *models.Mapping, client models.Client) {
	for _, a := range e.assigner.AssignAll(mapping, client) {
		fm, ok := mapping.Get(a.FieldName)
		if !ok || fm.Selector == "" {
			continue
		}
		loc := e.driver.Locator(fm.Selector)
		switch a.Action {
		case "fill":
			if err := loc.Fill(ctx, a.Value); err == nil {
				fm.DefaultValue = a.Value
			}
		case "check":
			_ = loc.Check(ctx)
			fm.DefaultValue = "checked"
		case "uncheck":
			_ = loc.Uncheck(ctx)
		case "select_by_algorithm":
			_ = loc.SelectOption(ctx, browser.OptionSelector{Value: a.Value})
			fm.DefaultValue = a.Value
		case "select_index":
			idx := parseIndex(a.Value)
			_ = loc.SelectOption(ctx, browser.OptionSelector{Index: &idx})
		}
	}
}

func countPopulated(mapping *models.Mapping) int {
	n := 0
	mapping.Each(func(_ string, fm *models.FieldMapping) {
		if fm.DefaultValue != "" {
			n++
		}
	})
	return n
}

func forwardResponses(ctx context.Context, driver browser.Driver, hub *eventstream.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-driver.Responses():
			if !ok {
				return
			}
			hub.Emit(eventstream.Event{
				Kind:      eventstream.KindResponse,
				URL:       ev.URL,
				Status:    ev.Status,
				Method:    ev.RequestMethod,
				Timestamp: time.Now(),
			})
		}
	}
}

func parseIndex(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (e *Engine) failureVerdict(recordID, httpStatus int, rawErr error, pageText string) models.Verdict {
	detail := e.classifier.Classify(httpStatus, rawErr, pageText)
	return verdictFromDetail(recordID, StateSubmittedFailed, detail, fmt.Sprintf("navigation failed: %s", rawErr))
}

func verdictFromDetail(recordID int, _ State, detail errclass.Detail, message string) models.Verdict {
	return models.Verdict{
		RecordID:        recordID,
		Success:         false,
		Confidence:      detail.Confidence,
		ErrorCode:       string(detail.Code),
		ErrorCategory:   detail.Category,
		Retryable:       detail.Retryable,
		CooldownSeconds: detail.CooldownSeconds,
		Message:         message,
	}
}
