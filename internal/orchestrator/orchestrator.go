// Package orchestrator wires the Field Pattern Catalog (C2) through the
// Error Classifier (C12) into the single entrypoint described in
// SPEC_FULL.md §6: process_one(url, client_record, targeting_id) -> Verdict.
// Everything upstream of this package (job queue, persistence, credential
// management, the headless browser runtime itself) is an external
// collaborator per §1; this package only consumes a browser.Driver already
// navigated to nothing in particular and a decoded client record.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/config"
	"github.com/formsender/core/internal/ctxextract"
	"github.com/formsender/core/internal/errclass"
	"github.com/formsender/core/internal/formscan"
	"github.com/formsender/core/internal/logging"
	"github.com/formsender/core/internal/mapper"
	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/submission"
	"github.com/formsender/core/internal/unmapped"
)

const outerHTMLScript = `() => document.documentElement.outerHTML`

// DriverFactory opens a fresh browser.Driver for one page, handed to the
// orchestrator instead of a live browser/context to keep this package free
// of any headless-runtime dependency, per §1's "headless browser runtime
// itself" exclusion.
type DriverFactory func(ctx context.Context) (browser.Driver, error)

// Orchestrator wires formscan/mapper/unmapped/submission/errclass into
// process_one, per §6's control flow.
type Orchestrator struct {
	newDriver       DriverFactory
	cfg             *config.Config
	unmappedOptions unmapped.Options
	logger          logging.Logger
}

// Option customizes an Orchestrator away from its config-derived defaults.
type Option func(*Orchestrator)

func WithLogger(l logging.Logger) Option { return func(o *Orchestrator) { o.logger = l } }
func WithConfig(c *config.Config) Option { return func(o *Orchestrator) { o.cfg = c } }

// New builds an Orchestrator that opens one browser.Driver per process_one
// call via newDriver.
func New(newDriver DriverFactory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		newDriver: newDriver,
		cfg:       config.Load(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessOne runs one submission attempt end to end: open page, scan DOM,
// map fields, fill gaps, submit, judge, classify. recordID and url flow
// through to the returned Verdict untouched. Per §7, any panic inside is
// recovered and converted to a SYSTEM-coded Verdict rather than propagating.
func (o *Orchestrator) ProcessOne(ctx context.Context, recordID int, url string, record models.ClientRecord) (verdict models.Verdict) {
	correlationID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Printf("🚨 process_one[%s] recovered from panic: %v", correlationID, r)
			verdict = withCorrelation(models.Verdict{
				RecordID:      recordID,
				Success:       false,
				ErrorCode:     string(errclass.System),
				ErrorCategory: models.CategoryGeneral,
				Retryable:     true,
				Message:       "internal error",
				SubmittedAt:   time.Now().In(models.JST),
			}, correlationID)
		}
	}()

	o.logger.Printf("🔍 process_one[%s]: starting for %s", correlationID, url)

	driver, err := o.newDriver(ctx)
	if err != nil {
		o.logger.Printf("❌ process_one[%s]: failed to open browser driver: %v", correlationID, err)
		return withCorrelation(failVerdict(recordID, errclass.External, "could not open a browser session"), correlationID)
	}
	defer driver.Close()

	budgets := o.cfg.ToSubmissionBudgets()
	keywords := o.cfg.ToSubmissionKeywords()

	preCtx, cancel := context.WithTimeout(ctx, budgets.PreProcessing)
	defer cancel()

	if _, err := driver.Goto(preCtx, url, budgets.PageLoad); err != nil {
		o.logger.Printf("❌ process_one[%s]: navigation failed for %s: %v", correlationID, url, err)
		return withCorrelation(failVerdict(recordID, errclass.External, redact(err.Error(), record.Client)), correlationID)
	}

	raw, err := driver.Evaluate(preCtx, outerHTMLScript)
	if err != nil {
		o.logger.Printf("❌ process_one[%s]: could not read page HTML: %v", correlationID, err)
		return withCorrelation(failVerdict(recordID, errclass.SuccessDeterminationFail, "could not read page DOM"), correlationID)
	}
	html, _ := raw.(string)

	page, err := formscan.Scan(html)
	if err != nil {
		o.logger.Printf("❌ process_one[%s]: DOM scan failed: %v", correlationID, err)
		return withCorrelation(failVerdict(recordID, errclass.Mapping, "could not parse page DOM"), correlationID)
	}

	boxes, blocks := gatherGeometry(preCtx, driver, page)
	applyGeometry(page, boxes)

	contexts := buildContexts(page, boxes, blocks)

	m := mapper.New()
	mapping := m.Map(page.InForm, contexts)

	handler := unmapped.New(o.unmappedOptions)
	handler.Run(page.InForm, page.OutsideForm, contexts, record.Client, mapping)

	attachSelectors(mapping, page)

	o.logger.Printf("🔍 process_one[%s]: mapped %d/%d logical fields for %s", correlationID, mapping.Len(), len(page.InForm), url)

	engine := submission.NewWithOptions(driver, submission.WithBudgets(budgets), submission.WithKeywords(keywords))
	verdict = engine.Run(ctx, recordID, url, record.Client, mapping)
	verdict.SubmittedAt = time.Now().In(models.JST)
	verdict.Message = redact(verdict.Message, record.Client)
	verdict = withCorrelation(verdict, correlationID)

	if verdict.Success {
		o.logger.Printf("✅ process_one[%s]: submission succeeded (stage=%d, %s)", correlationID, verdict.Stage, verdict.StageName)
	} else {
		o.logger.Printf("📋 process_one[%s]: submission failed (%s/%s)", correlationID, verdict.ErrorCategory, verdict.ErrorCode)
	}

	return verdict
}

// withCorrelation stamps the per-attempt correlation ID onto Details so a
// caller can line up a Verdict with the 🔍/❌/✅ log lines that produced it.
func withCorrelation(v models.Verdict, correlationID string) models.Verdict {
	if v.Details == nil {
		v.Details = map[string]any{}
	}
	v.Details["correlation_id"] = correlationID
	return v
}

// buildContexts extracts a TextContext list per element. When live
// geometry was gathered, position-based search (SPEC_FULL.md §4.3 step 7)
// runs against it via ctxextract.LiveReader; otherwise it falls back to
// page.Reader's static (always-empty) PositionContexts.
func buildContexts(page *formscan.Page, boxes map[string]models.BoundingBox, blocks []ctxextract.TextBlock) map[string][]models.TextContext {
	reader := page.Reader
	if len(boxes) > 0 {
		reader = ctxextract.NewLiveReader(page.Reader, boxes, blocks)
	}

	out := make(map[string][]models.TextContext, len(page.InForm)+len(page.OutsideForm))
	for _, el := range page.InForm {
		out[el.ElementID] = ctxextract.Extract(el.ElementID, reader)
	}
	for _, el := range page.OutsideForm {
		out[el.ElementID] = ctxextract.Extract(el.ElementID, reader)
	}
	return out
}

func failVerdict(recordID int, code errclass.Code, message string) models.Verdict {
	return models.Verdict{
		RecordID:      recordID,
		Success:       false,
		ErrorCode:     string(code),
		ErrorCategory: models.CategoryGeneral,
		Message:       message,
		SubmittedAt:   time.Now().In(models.JST),
	}
}

func attachSelectors(mapping *models.Mapping, page *formscan.Page) {
	mapping.Each(func(_ string, fm *models.FieldMapping) {
		fm.Selector = page.Selector(fm.Element.ElementID)
	})
}

// redact replaces any client field value of two or more bytes found verbatim in s with
// the fixed token named in SPEC_FULL.md §7, so diagnostic strings never leak
// PII.
func redact(s string, c models.Client) string {
	if s == "" {
		return s
	}
	values := []string{
		c.CompanyName, c.LastName, c.FirstName, c.LastNameKana, c.FirstNameKana,
		c.LastNameHiragana, c.FirstNameHiragana, c.Email1, c.Phone1, c.Phone2, c.Phone3,
		c.PostalCode1, c.PostalCode2, c.Address1, c.Address2, c.Address3, c.Address4, c.Address5,
	}
	for _, v := range values {
		if len(v) < 2 {
			continue
		}
		s = strings.ReplaceAll(s, v, "***VALUE_REDACTED***")
	}
	return s
}
