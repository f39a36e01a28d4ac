// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleArticle = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">34567890</PMID>
    <Article PubModel="Print">
      <Journal>
        <JournalIssue CitedMedium="Internet">
          <PubDate><Year>2021</Year><Month>Mar</Month><Day>4</Day></PubDate>
        </JournalIssue>
      </Journal>
      <ArticleTitle>The <i>Example</i> Database:   a resource for things.</ArticleTitle>
      <ELocationID EIdType="doi" ValidYN="Y">10.1093/nar/gkab001</ELocationID>
      <Abstract>
        <AbstractText Label="BACKGROUND">Data is scattered.</AbstractText>
        <AbstractText Label="RESULTS">It is freely available at https://www.example-db.org/.</AbstractText>
      </Abstract>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y"><LastName>Lovelace</LastName><ForeName>Ada</ForeName><Initials>A</Initials></Author>
        <Author ValidYN="Y"><LastName>Hopper</LastName><Initials>G</Initials></Author>
        <Author ValidYN="Y"><CollectiveName>Example Consortium</CollectiveName></Author>
      </AuthorList>
    </Article>
    <MeshHeadingList>
      <MeshHeading><DescriptorName UI="D030541">Databases, Genetic</DescriptorName></MeshHeading>
    </MeshHeadingList>
  </MedlineCitation>
  <PubmedData>
    <ArticleIdList>
      <ArticleId IdType="pubmed">34567890</ArticleId>
      <ArticleId IdType="doi">10.1093/nar/other</ArticleId>
    </ArticleIdList>
  </PubmedData>
</PubmedArticle>
</PubmedArticleSet>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.Client(), types.PubMedConfig{
		BaseURL:           ts.URL + "/",
		Email:             "curator@example.org",
		APIKey:            "k",
		RequestsPerSecond: 1000,
		MaxRetries:        2,
	})
}

func TestFetch_ParsesArticle(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/efetch.fcgi", r.URL.Path)
		query = r.URL.RawQuery
		w.Write([]byte(sampleArticle))
	})

	raw, err := c.Fetch(context.Background(), "34567890")
	require.NoError(t, err)
	require.NotNil(t, raw)

	assert.Equal(t, "The Example Database:   a resource for things.", raw.Title)
	assert.Equal(t, []string{"Ada Lovelace", "G Hopper", "Example Consortium"}, raw.Authors)
	assert.Equal(t, "2021", raw.Year)
	assert.Equal(t, "2021 Mar 4", raw.PubDate)
	assert.Equal(t, "10.1093/nar/gkab001", raw.DOI)
	assert.Equal(t, "BACKGROUND: Data is scattered. RESULTS: It is freely available at https://www.example-db.org/.", raw.Abstract)
	assert.Equal(t, []string{"Databases, Genetic"}, raw.Keywords)

	assert.Contains(t, query, "db=pubmed")
	assert.Contains(t, query, "id=34567890")
	assert.Contains(t, query, "api_key=k")
	assert.Contains(t, query, "tool=bioregistry-curator")
}

func TestFetch_DOIFromArticleIDList(t *testing.T) {
	body := strings.Replace(sampleArticle,
		`<ELocationID EIdType="doi" ValidYN="Y">10.1093/nar/gkab001</ELocationID>`, "", 1)
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	})

	raw, err := c.Fetch(context.Background(), "34567890")
	require.NoError(t, err)
	assert.Equal(t, "10.1093/nar/other", raw.DOI)
}

func TestFetch_NoRecord(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty set", http.StatusOK, `<?xml version="1.0" ?><PubmedArticleSet></PubmedArticleSet>`},
		{"error document", http.StatusOK, `<eFetchResult><ERROR>Empty id list</ERROR></eFetchResult>`},
		{"different pmid", http.StatusOK, sampleArticle},
		{"404", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			raw, err := c.Fetch(context.Background(), "99999999")
			require.NoError(t, err)
			assert.Nil(t, raw)
		})
	}
}

func TestFetch_UpstreamFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.Fetch(context.Background(), "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 500")
	})

	t.Run("malformed xml", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<PubmedArticleSet><PubmedArticle>"))
		})
		_, err := c.Fetch(context.Background(), "1")
		require.Error(t, err)
	})

	t.Run("throttled then ok", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(sampleArticle))
		})
		raw, err := c.Fetch(context.Background(), "34567890")
		require.NoError(t, err)
		require.NotNil(t, raw)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("context deadline", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Fetch(ctx, "1")
		require.Error(t, err)
	})
}

func TestPubDateString(t *testing.T) {
	assert.Equal(t, "2021 Mar", pubDate{Year: "2021", Month: "Mar"}.String())
	assert.Equal(t, "1998 Dec-1999 Jan", pubDate{MedlineDate: " 1998 Dec-1999 Jan "}.String())
}
