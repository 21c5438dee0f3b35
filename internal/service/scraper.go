package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/constants"
	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

// Scraper recovers a canonical channel id from the public channel page
// without spending any API quota. Used when a name-based lookup comes back
// empty: forUsername predates handles and custom URLs and misses most of
// them.
type Scraper struct {
	httpClient *http.Client
	logger     *zap.Logger
	baseURL    string
}

func NewScraper(logger *zap.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{
			Timeout: constants.ScraperConfig.Timeout,
		},
		logger:  logger,
		baseURL: "https://www.youtube.com",
	}
}

func (s *Scraper) CanonicalChannelID(ctx context.Context, ident domain.ChannelIdentifier) (string, error) {
	var path string
	switch ident.Kind {
	case domain.IdentifierRawID:
		return ident.Value, nil
	case domain.IdentifierHandle:
		path = "/@" + ident.Value
	case domain.IdentifierCustomURL:
		path = "/c/" + ident.Value
	case domain.IdentifierLegacyUser:
		path = "/user/" + ident.Value
	default:
		return "", fmt.Errorf("unknown identifier kind: %s", ident.Kind)
	}

	url := s.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constants.ScraperConfig.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.NewScrapeError("channel page request failed", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewScrapeError(
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), url, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", errors.NewScrapeError("failed to parse channel page", url, err)
	}

	id := extractCanonicalID(doc)
	if id == "" {
		return "", errors.NewScrapeError("no canonical channel id on page", url, nil)
	}

	s.logger.Debug("Canonical channel id scraped",
		zap.String("input", ident.Value),
		zap.String("channel", id))

	return id, nil
}

func extractCanonicalID(doc *goquery.Document) string {
	if id, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok {
		if isChannelID(id) {
			return id
		}
	}

	if href, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if idx := strings.Index(href, "/channel/"); idx >= 0 {
			id := href[idx+len("/channel/"):]
			if cut := strings.IndexAny(id, "/?"); cut >= 0 {
				id = id[:cut]
			}
			if isChannelID(id) {
				return id
			}
		}
	}

	return ""
}

func isChannelID(s string) bool {
	return strings.HasPrefix(s, "UC") && len(s) == 24
}
