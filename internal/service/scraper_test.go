package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

func newTestScraper(handler http.Handler) (*Scraper, *httptest.Server) {
	srv := httptest.NewServer(handler)
	s := NewScraper(zap.NewNop())
	s.baseURL = srv.URL
	return s, srv
}

func TestScraperExtractsIdentifierMeta(t *testing.T) {
	var requestedPath string
	s, srv := newTestScraper(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprint(w, `<html><head>
			<meta itemprop="identifier" content="UCabcdefghijklmnopqrstuv">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	id, err := s.CanonicalChannelID(context.Background(),
		domain.ChannelIdentifier{Kind: domain.IdentifierHandle, Value: "examplechannel"})
	require.NoError(t, err)
	assert.Equal(t, "UCabcdefghijklmnopqrstuv", id)
	assert.Equal(t, "/@examplechannel", requestedPath)
}

func TestScraperFallsBackToOgURL(t *testing.T) {
	s, srv := newTestScraper(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:url" content="https://www.youtube.com/channel/UCabcdefghijklmnopqrstuv?feature=x">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	id, err := s.CanonicalChannelID(context.Background(),
		domain.ChannelIdentifier{Kind: domain.IdentifierCustomURL, Value: "examplechannel"})
	require.NoError(t, err)
	assert.Equal(t, "UCabcdefghijklmnopqrstuv", id)
}

func TestScraperNoIdentifierOnPage(t *testing.T) {
	s, srv := newTestScraper(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>nothing here</body></html>`)
	}))
	defer srv.Close()

	_, err := s.CanonicalChannelID(context.Background(),
		domain.ChannelIdentifier{Kind: domain.IdentifierHandle, Value: "examplechannel"})

	var scrapeErr *errors.ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
}

func TestScraperNon200Status(t *testing.T) {
	s, srv := newTestScraper(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := s.CanonicalChannelID(context.Background(),
		domain.ChannelIdentifier{Kind: domain.IdentifierLegacyUser, Value: "gone"})

	var scrapeErr *errors.ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
}

func TestScraperPassesRawIDThrough(t *testing.T) {
	s := NewScraper(zap.NewNop())

	id, err := s.CanonicalChannelID(context.Background(),
		domain.ChannelIdentifier{Kind: domain.IdentifierRawID, Value: "UCabcdefghijklmnopqrstuv"})
	require.NoError(t, err)
	assert.Equal(t, "UCabcdefghijklmnopqrstuv", id)
}
