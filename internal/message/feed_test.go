package message

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notesFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Notas</title>
  <link>http://example.com/</link>
  <description>Notas de amor</description>
  <item>
    <title>Antigua</title>
    <description>Una nota antigua.</description>
    <pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Nueva</title>
    <description>Cada día te quiero más.</description>
    <pubDate>Tue, 27 Feb 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title></title>
    <description></description>
    <pubDate>Wed, 28 Feb 2024 10:00:00 +0000</pubDate>
  </item>
</channel>
</rss>`

func TestFeed_NewestItemWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(notesFeed))
	}))
	defer srv.Close()

	text, err := NewFeed(srv.URL).Generate(context.Background(), Prompt, Temperature)

	require.NoError(t, err)
	assert.Equal(t, "Cada día te quiero más.", text)
}

func TestFeed_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFeed(srv.URL).Generate(context.Background(), Prompt, Temperature)
	assert.Error(t, err)
}
