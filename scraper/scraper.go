// Package scraper implements a catalog session over plain HTTP for catalogs
// (or recorded copies of them) whose result and holdings pages are reachable
// by following links.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-library-check/catalog"
	"github.com/aluiziolira/go-library-check/config"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const availabilityLinkText = "Saatavilla"

const holdingContainerClass = "arena-holding-child-hyper-container"

type page struct {
	doc *goquery.Document
	url *url.URL
}

// Session browses the catalog by fetching one page per activation.
type Session struct {
	cfg       *config.Config
	searchURL *url.URL
	collector *colly.Collector
	cache     *lru.Cache[string, *page]
	current   *page
}

var _ catalog.Session = (*Session)(nil)

// NewSession builds a session searching cfg.CatalogURL.
func NewSession(cfg *config.Config) (*Session, error) {
	parsed, err := url.Parse(cfg.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("catalog url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.WaitTimeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.WaitTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	cache, err := lru.New[string, *page](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Session{
		cfg:       cfg,
		searchURL: parsed,
		collector: collector,
		cache:     cache,
	}, nil
}

// Opener returns a catalog.Opener for cfg.
func Opener(cfg *config.Config) catalog.Opener {
	return func(context.Context) (catalog.Session, error) {
		return NewSession(cfg)
	}
}

// SubmitSearch fetches the result page for title and author.
func (s *Session) SubmitSearch(ctx context.Context, title, author string) error {
	q := s.searchURL.Query()
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	} else {
		q.Del("author")
	}
	if s.cfg.MaterialType != "" {
		q.Set("material", s.cfg.MaterialType)
	}
	u := *s.searchURL
	u.RawQuery = q.Encode()

	s.current = nil
	if err := s.load(ctx, u.String()); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrUnreachable, err)
	}
	return nil
}

// FindAvailabilityEntries returns the "Saatavilla" links of the result page.
func (s *Session) FindAvailabilityEntries(context.Context) ([]catalog.Handle, error) {
	if s.current == nil {
		return nil, fmt.Errorf("find availability entries: no page loaded")
	}
	var handles []catalog.Handle
	s.links(availabilityLinkText).Each(func(_ int, a *goquery.Selection) {
		handles = append(handles, s.handle(a, availabilityLinkText))
	})
	return handles, nil
}

// Activate follows the handle's link. Links pointing into the current page
// need no request.
func (s *Session) Activate(ctx context.Context, h catalog.Handle) error {
	if h.Ref == "" {
		return nil
	}
	if err := s.load(ctx, h.Ref); err != nil {
		return fmt.Errorf("activate %q: %w", h.Label, err)
	}
	return nil
}

// FindHoldingEntry returns the first link labelled label.
func (s *Session) FindHoldingEntry(_ context.Context, label string) (catalog.Handle, bool, error) {
	if s.current == nil {
		return catalog.Handle{}, false, fmt.Errorf("find holding %q: no page loaded", label)
	}
	links := s.links(label)
	if links.Length() == 0 {
		return catalog.Handle{}, false, nil
	}
	return s.handle(links.First(), label), true, nil
}

// FindScopedIndicator reads the holdings cell of kind in the block that
// follows the scope's label.
func (s *Session) FindScopedIndicator(_ context.Context, kind catalog.IndicatorKind, scope catalog.Handle) (string, bool, error) {
	if s.current == nil {
		return "", false, fmt.Errorf("find %s: no page loaded", kind)
	}
	label := s.current.doc.Find("span").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.TrimSpace(sel.Text()) == scope.Label
	}).First()
	value := label.Parent().Parent().
		NextAllFiltered("div." + holdingContainerClass).
		Find("td." + kind.CellClass() + " > span.arena-value").
		First()
	if value.Length() == 0 {
		return "", false, nil
	}
	return strings.TrimSpace(value.Text()), true, nil
}

// Close drops cached pages.
func (s *Session) Close() error {
	s.cache.Purge()
	s.current = nil
	return nil
}

func (s *Session) links(text string) *goquery.Selection {
	return s.current.doc.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return strings.TrimSpace(a.Text()) == text
	})
}

func (s *Session) handle(a *goquery.Selection, label string) catalog.Handle {
	href, _ := a.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return catalog.Handle{Label: label}
	}
	ref, err := s.current.url.Parse(href)
	if err != nil {
		return catalog.Handle{Label: label}
	}
	return catalog.Handle{Ref: ref.String(), Label: label}
}

func (s *Session) load(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return catalog.WrapWait("fetch "+rawURL, err)
	}
	if p, ok := s.cache.Get(rawURL); ok {
		s.current = p
		return nil
	}

	var (
		loaded   *page
		fetchErr error
	)
	c := s.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse %s: %w", r.Request.URL, err)
			return
		}
		loaded = &page{doc: doc, url: r.Request.URL}
	})
	c.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = classifyError(err, statusCode)
		slog.Debug("catalog fetch failed",
			slog.String("url", rawURL),
			slog.Int("status", statusCode),
			slog.Any("error", err),
		)
	})

	if err := c.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = classifyError(err, 0)
	}
	if fetchErr != nil {
		return fetchErr
	}
	if loaded == nil {
		return fmt.Errorf("fetch %s: empty response", rawURL)
	}

	s.cache.Add(rawURL, loaded)
	s.current = loaded
	return nil
}
