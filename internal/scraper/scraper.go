// Package scraper fetches competitor prices from Google Shopping search
// results. It is a plain HTTP fetch-and-parse utility with request rate
// limiting and a small in-memory cache, not a crawler.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"optimapricer/internal/config"
)

const (
	defaultBaseURL = "https://www.google.com/search"
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ScrapedPrice is one competitor price observation.
type ScrapedPrice struct {
	Price  float64
	Source string
	URL    string
}

// Result bundles the observations with the raw page HTML so callers can
// archive the snapshot. HTML is empty when served from cache.
type Result struct {
	Prices []ScrapedPrice
	HTML   []byte
}

// Scraper is the interface the scan and recommendation services depend on.
type Scraper interface {
	ScrapeAll(ctx context.Context, productName, category string, forceRefresh bool) (*Result, error)
}

// GoogleShopping scrapes Google Shopping search results. Safe for
// concurrent use; requests are serialized by the rate limiter.
type GoogleShopping struct {
	client  *http.Client
	cfg     config.ScraperConfig
	logger  *slog.Logger
	baseURL string

	limitMu  sync.Mutex
	lastReq  time.Time
	cacheMu  sync.Mutex
	cache    map[string]cacheEntry
}

type cacheEntry struct {
	prices []ScrapedPrice
	at     time.Time
}

var _ Scraper = (*GoogleShopping)(nil)

// New creates a Google Shopping scraper. Outbound requests are traced via
// the otelhttp transport.
func New(cfg config.ScraperConfig, logger *slog.Logger) *GoogleShopping {
	return &GoogleShopping{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.RequestTimeout,
		},
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "scraper")),
		baseURL: defaultBaseURL,
		cache:   make(map[string]cacheEntry),
	}
}

// ScrapeAll fetches competitor prices for the product, using the cache
// unless forceRefresh is set.
func (s *GoogleShopping) ScrapeAll(ctx context.Context, productName, category string, forceRefresh bool) (*Result, error) {
	key := productName + "_" + category

	if !forceRefresh {
		if prices, ok := s.cached(key); ok {
			s.logger.DebugContext(ctx, "serving cached prices",
				slog.String("product", productName), slog.Int("count", len(prices)))
			return &Result{Prices: prices}, nil
		}
	} else {
		s.invalidate(key)
	}

	if err := s.waitForSlot(ctx); err != nil {
		return nil, err
	}

	html, err := s.fetch(ctx, buildQuery(productName, category))
	if err != nil {
		return nil, fmt.Errorf("fetch shopping results: %w", err)
	}

	prices := s.parse(html, productName, category)
	if len(prices) > s.cfg.MaxPrices {
		prices = prices[:s.cfg.MaxPrices]
	}

	s.store(key, prices)

	s.logger.InfoContext(ctx, "scrape complete",
		slog.String("product", productName),
		slog.Int("prices", len(prices)),
		slog.Int("sources", countSources(prices)))

	return &Result{Prices: prices, HTML: html}, nil
}

// waitForSlot enforces the minimum interval between outbound requests.
func (s *GoogleShopping) waitForSlot(ctx context.Context) error {
	s.limitMu.Lock()
	defer s.limitMu.Unlock()

	if wait := s.cfg.MinInterval - time.Since(s.lastReq); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	s.lastReq = time.Now()
	return nil
}

func (s *GoogleShopping) fetch(ctx context.Context, query string) ([]byte, error) {
	u := fmt.Sprintf("%s?tbm=shop&q=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

// buildQuery sharpens the search term: phones get "new"/"unlocked" so the
// results are actual devices rather than cases and chargers.
func buildQuery(productName, category string) string {
	query := strings.TrimSpace(productName)
	lower := strings.ToLower(query)

	if strings.Contains(lower, "iphone") || strings.Contains(lower, "samsung") {
		if !strings.Contains(lower, "unlocked") {
			query += " unlocked"
		}
		if !strings.Contains(lower, "new") {
			query = "new " + query
		}
	}
	if category != "" {
		query += " " + category
	}
	return query
}

func (s *GoogleShopping) cached(key string) ([]ScrapedPrice, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	entry, ok := s.cache[key]
	if !ok || time.Since(entry.at) >= s.cfg.CacheTTL {
		return nil, false
	}
	return entry.prices, true
}

func (s *GoogleShopping) store(key string, prices []ScrapedPrice) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = cacheEntry{prices: prices, at: time.Now()}
}

func (s *GoogleShopping) invalidate(key string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.cache, key)
}

func countSources(prices []ScrapedPrice) int {
	seen := make(map[string]struct{}, len(prices))
	for _, p := range prices {
		seen[p.Source] = struct{}{}
	}
	return len(seen)
}

// AveragePrice returns the mean of positive prices, or false when none exist.
func AveragePrice(prices []ScrapedPrice) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range prices {
		if p.Price > 0 {
			sum += p.Price
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// PriceRange returns the min and max of positive prices, or false when none
// exist.
func PriceRange(prices []ScrapedPrice) (min, max float64, ok bool) {
	for _, p := range prices {
		if p.Price <= 0 {
			continue
		}
		if !ok {
			min, max, ok = p.Price, p.Price, true
			continue
		}
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max, ok
}

var priceRe = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)

// parse extracts prices from the rendered page. JSON-LD structured data is
// tried first, then price-bearing elements inside result containers, and
// finally a raw text sweep when too few prices were found.
func (s *GoogleShopping) parse(html []byte, productName, category string) []ScrapedPrice {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		s.logger.Warn("parse shopping page", slog.Any("error", err))
		return nil
	}

	minPrice := minPriceFor(productName, category)
	seen := make(map[string]struct{})
	seenPrice := make(map[float64]struct{})
	var prices []ScrapedPrice

	add := func(price float64, rawURL string) {
		if price < minPrice || price < 10 || price > 100000 {
			return
		}
		source := extractRetailer(rawURL)
		key := fmt.Sprintf("%.2f|%s", price, source)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		seenPrice[price] = struct{}{}
		prices = append(prices, ScrapedPrice{Price: price, Source: source, URL: rawURL})
	}

	// JSON-LD product offers.
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		for _, item := range decodeJSONLD(sel.Text()) {
			if price, u, ok := offerFromItem(item); ok {
				add(price, u)
			}
		}
	})

	// Result containers: prefer a dedicated price element, fall back to the
	// largest dollar amount in the container text (shipping lines are
	// smaller than the item price).
	doc.Find("div[data-docid], .sh-dgr__content, div.g").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Find(".a8Pemb, [data-price], .price").First().Text()
		price, ok := parsePriceText(text)
		if !ok {
			price, ok = largestPrice(sel.Text(), minPrice)
		}
		if !ok {
			return
		}
		add(price, containerLink(sel))
	})

	// Sparse results: sweep the whole page text for dollar amounts. Prices
	// already collected with a known source are not re-added anonymously.
	if len(prices) < 5 {
		doc.Find("span, div, td, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			for _, m := range priceRe.FindAllStringSubmatch(sel.Text(), -1) {
				price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
				if err != nil {
					continue
				}
				if _, dup := seenPrice[price]; dup {
					continue
				}
				add(price, containerLink(sel))
			}
			return len(prices) < s.cfg.MaxPrices
		})
	}

	return prices
}

func decodeJSONLD(raw string) []map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var single map[string]any
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []map[string]any{single}
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	return nil
}

func offerFromItem(item map[string]any) (price float64, itemURL string, ok bool) {
	typ, _ := item["@type"].(string)
	if !strings.Contains(typ, "Product") {
		return 0, "", false
	}

	offers := item["offers"]
	if list, isList := offers.([]any); isList && len(list) > 0 {
		offers = list[0]
	}
	offer, isMap := offers.(map[string]any)
	if !isMap {
		return 0, "", false
	}

	switch v := offer["price"].(type) {
	case float64:
		price = v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return 0, "", false
		}
		price = parsed
	default:
		return 0, "", false
	}

	if u, has := offer["url"].(string); has {
		itemURL = u
	} else if u, has := item["url"].(string); has {
		itemURL = u
	}
	return price, itemURL, true
}

func parsePriceText(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func largestPrice(text string, minPrice float64) (float64, bool) {
	best, found := 0.0, false
	for _, m := range priceRe.FindAllStringSubmatch(text, -1) {
		price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || price < minPrice {
			continue
		}
		if price > best {
			best, found = price, true
		}
	}
	return best, found
}

// containerLink finds the first link in the container, unwrapping Google
// redirect URLs (/url?url=...).
func containerLink(sel *goquery.Selection) string {
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok {
		return ""
	}
	if strings.HasPrefix(href, "/url?") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("url"); target != "" {
				return target
			}
		}
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

var retailerPatterns = []struct {
	name     string
	patterns []string
}{
	{"amazon", []string{"amazon.com", "amazon"}},
	{"walmart", []string{"walmart.com", "walmart"}},
	{"target", []string{"target.com", "target"}},
	{"bestbuy", []string{"bestbuy.com", "best buy"}},
	{"homedepot", []string{"homedepot.com", "home depot"}},
	{"lowes", []string{"lowes.com", "lowes"}},
	{"wayfair", []string{"wayfair.com", "wayfair"}},
	{"ebay", []string{"ebay.com", "ebay"}},
	{"etsy", []string{"etsy.com", "etsy"}},
	{"costco", []string{"costco.com", "costco"}},
	{"newegg", []string{"newegg.com", "newegg"}},
}

// extractRetailer maps a result URL to a retailer slug, defaulting to
// google_shopping when no known retailer matches.
func extractRetailer(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, r := range retailerPatterns {
		for _, p := range r.patterns {
			if strings.Contains(lower, p) {
				return r.name
			}
		}
	}
	return "google_shopping"
}

// minPriceFor guards against accessory prices polluting results for
// products whose name implies a price class.
func minPriceFor(productName, category string) float64 {
	lower := strings.ToLower(productName)

	if strings.Contains(lower, "iphone") {
		switch {
		case strings.Contains(lower, "pro max"), strings.Contains(lower, "1tb"), strings.Contains(lower, "512gb"):
			return 1000
		case strings.Contains(lower, "pro"):
			return 800
		default:
			return 500
		}
	}

	for _, kw := range []string{"samsung galaxy", "ultra", "fold"} {
		if strings.Contains(lower, kw) {
			return 800
		}
	}

	if strings.Contains(strings.ToLower(category), "electronic") {
		return 50
	}
	return 10
}
