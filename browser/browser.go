// Package browser drives the Arena web catalog in a headless Chrome.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/config"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Session is one Chrome tab positioned on the catalog.
type Session struct {
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc
}

var _ catalog.Session = (*Session)(nil)

// Opener returns a catalog.Opener starting Chrome with cfg.
func Opener(cfg *config.Config) catalog.Opener {
	return func(ctx context.Context) (catalog.Session, error) {
		return NewSession(ctx, cfg)
	}
}

// NewSession starts Chrome and opens the catalog's advanced search page.
func NewSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1280, 1024),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	s := &Session{
		cfg: cfg,
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	// the first Run starts the browser and must not carry a timeout
	if err := chromedp.Run(tabCtx); err != nil {
		s.cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	if err := s.run(ctx, "open catalog", chromedp.Navigate(cfg.CatalogURL)); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnreachable, err)
	}

	slog.Debug("browser session ready", slog.String("url", cfg.CatalogURL), slog.Bool("headless", cfg.Headless))
	return s, nil
}

// SubmitSearch fills in the advanced search form and submits it.
func (s *Session) SubmitSearch(ctx context.Context, title, author string) error {
	steps := chromedp.Tasks{
		chromedp.WaitReady(logoSelector, chromedp.ByQuery),
		chromedp.ScrollIntoView(logoSelector, chromedp.ByQuery),
		chromedp.Click(linkXPath(advancedSearchLink), chromedp.BySearch),
		selectOption(systemChoice, s.cfg.System),
		chromedp.WaitReady(optionXPath(s.cfg.Branch), chromedp.BySearch),
		selectOption(materialChoice, s.cfg.MaterialType),
		selectOption(titleTypeChoice, titleType),
		chromedp.Clear(nameSelector(titleField), chromedp.ByQuery),
		chromedp.SendKeys(nameSelector(titleField), title, chromedp.ByQuery),
	}
	if author != "" {
		steps = append(steps,
			selectOption(authorTypeChoice, authorType),
			chromedp.Sleep(s.cfg.SettleDelay),
			chromedp.Clear(nameSelector(authorField), chromedp.ByQuery),
			chromedp.SendKeys(nameSelector(authorField), author, chromedp.ByQuery),
		)
	}
	steps = append(steps,
		chromedp.ScrollIntoView(nameSelector(searchButton), chromedp.ByQuery),
		chromedp.Click(nameSelector(searchButton), chromedp.ByQuery),
	)

	if err := s.run(ctx, "submit search", steps); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrUnreachable, err)
	}
	return nil
}

// FindAvailabilityEntries waits for the result list and returns its
// "Saatavilla" links.
func (s *Session) FindAvailabilityEntries(ctx context.Context) ([]catalog.Handle, error) {
	if err := s.run(ctx, "wait for "+resultsText, chromedp.WaitReady(textXPath(resultsText), chromedp.BySearch)); err != nil {
		return nil, err
	}
	if err := s.run(ctx, "settle", chromedp.Sleep(s.cfg.SettleDelay)); err != nil {
		return nil, err
	}

	xpath := linkXPath(availabilityText)
	count, err := s.count(ctx, xpath)
	if err != nil {
		return nil, err
	}
	handles := make([]catalog.Handle, 0, count)
	for i := 1; i <= count; i++ {
		handles = append(handles, catalog.Handle{Ref: nth(xpath, i), Label: availabilityText})
	}
	return handles, nil
}

// Activate scrolls to the element and clicks it.
func (s *Session) Activate(ctx context.Context, h catalog.Handle) error {
	return s.run(ctx, "activate "+h.Label,
		chromedp.ScrollIntoView(h.Ref, chromedp.BySearch),
		chromedp.Click(h.Ref, chromedp.BySearch),
	)
}

// FindHoldingEntry waits for label to appear and returns its link.
func (s *Session) FindHoldingEntry(ctx context.Context, label string) (catalog.Handle, bool, error) {
	if err := s.run(ctx, "wait for "+label, chromedp.WaitReady(textXPath(label), chromedp.BySearch)); err != nil {
		return catalog.Handle{}, false, err
	}

	xpath := linkXPath(label)
	count, err := s.count(ctx, xpath)
	if err != nil {
		return catalog.Handle{}, false, err
	}
	if count == 0 {
		return catalog.Handle{}, false, nil
	}
	return catalog.Handle{Ref: nth(xpath, 1), Label: label}, true, nil
}

// FindScopedIndicator reads an indicator cell of the scope's holdings block.
func (s *Session) FindScopedIndicator(ctx context.Context, kind catalog.IndicatorKind, scope catalog.Handle) (string, bool, error) {
	if err := s.run(ctx, "wait for "+holdingsText, chromedp.WaitReady(textXPath(holdingsText), chromedp.BySearch)); err != nil {
		return "", false, err
	}

	xpath := indicatorXPath(scope.Label, kind)
	count, err := s.count(ctx, xpath)
	if err != nil {
		return "", false, err
	}
	if count == 0 {
		return "", false, nil
	}

	var text string
	if err := s.run(ctx, "read "+kind.String(), chromedp.TextContent(nth(xpath, 1), &text, chromedp.BySearch)); err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

// count returns how many nodes match xpath without waiting for any.
func (s *Session) count(ctx context.Context, xpath string) (int, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, "query "+xpath, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// run executes actions within the session's wait budget. Cancelling ctx
// cancels the actions but leaves the browser running.
func (s *Session) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.cfg.WaitTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return catalog.WrapWait(op, chromedp.Run(runCtx, actions...))
}

func selectOption(name, text string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.WaitReady(nameSelector(name), chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var ok bool
			if err := chromedp.Evaluate(selectScript(name, text), &ok).Do(ctx); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("option %q not found in %q", text, name)
			}
			return nil
		}),
	}
}
