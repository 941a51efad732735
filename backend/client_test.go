package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyayasetu-web/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, server.URL, WithTimeout(5*time.Second))
}

func TestAsk_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req agentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is theft?", req.Query)

		json.NewEncoder(w).Encode(map[string]string{
			"status":   "success",
			"response": "<LEGAL_ANSWER>x</LEGAL_ANSWER>",
		})
	})

	got, err := c.Ask(context.Background(), "what is theft?")
	require.NoError(t, err)
	assert.Equal(t, "<LEGAL_ANSWER>x</LEGAL_ANSWER>", got)
}

func TestAsk_DetailIsSurfacedVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Rate limit exceeded. Please try again later."})
	})

	_, err := c.Ask(context.Background(), "q")

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusTooManyRequests, be.Status)
	assert.Equal(t, "/agent", be.Endpoint)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", UserMessage(err))
}

func TestBackendErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusNotFound, `{"detail":"Section not found"}`, "Section not found"},
		{"error field", http.StatusBadRequest, `{"id":"1","data":"","error":"bad pdf"}`, "bad pdf"},
		{"validation detail list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","query"]}]}`, "Failed to search cases"},
		{"non json body", http.StatusInternalServerError, `Internal Server Error`, "Failed to search cases"},
		{"error in 2xx body", http.StatusOK, `{"cases":[],"error":"index offline"}`, "index offline"},
		{"detail in 2xx body", http.StatusOK, `{"detail":"index offline"}`, "index offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.SearchCaseLaw(context.Background(), CaseLawQuery{Query: "murder"})

			var be *BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, tt.wantMsg, be.Message)
		})
	}
}

func TestMalformedJSONIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cases": [`)
	})

	_, err := c.SearchCaseLaw(context.Background(), CaseLawQuery{Query: "murder"})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ConnectivityMessage, UserMessage(err))
}

func TestUnreachableIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(url, url, WithTimeout(time.Second))
	_, err := c.Ask(context.Background(), "q")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ConnectivityMessage, UserMessage(err))
}

func TestCanceledContextIsDetectable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":"late"}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Ask(ctx, "q")

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchCaseLaw_RequestShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/case-law/search", r.URL.Path)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "defamation", raw["query"])
		assert.Equal(t, "supremecourt", raw["court"])
		assert.Nil(t, raw["from_date"], "empty filters are sent as null")
		assert.Contains(t, raw, "to_date")
		assert.Equal(t, "citations", raw["sort_by"])
		assert.Equal(t, float64(20), raw["max_results"])

		io.WriteString(w, `{"cases":[{"id":7,"title":"<b>A</b> v. B","court":"Supreme Court","date":"2020-01-01","cite_count":12,"link":"https://indiankanoon.org/doc/7/"}]}`)
	})

	court := models.CourtSupreme
	cases, err := c.SearchCaseLaw(context.Background(), CaseLawQuery{
		Query:      "defamation",
		Court:      &court,
		SortBy:     models.SortCitations,
		MaxResults: 20,
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, models.CaseLaw{
		ID: 7, Title: "<b>A</b> v. B", Court: "Supreme Court", Date: "2020-01-01",
		CiteCount: 12, Link: "https://indiankanoon.org/doc/7/",
	}, cases[0])
}

func TestSearchCaseLaw_MissingCasesIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	cases, err := c.SearchCaseLaw(context.Background(), CaseLawQuery{Query: "x"})
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestCompare(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compare", r.URL.Path)
		var req CompareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.LawBNS, req.LawType)
		assert.Equal(t, "2", req.Section)
		require.NotNil(t, req.Subsection)
		assert.Equal(t, "1", *req.Subsection)

		io.WriteString(w, `{
			"primary": {"id": "BNS 2(1)", "text_clean": "act denotes..."},
			"related": [{"id": "IPC 33", "text_clean": "The word act...", "heading": "Act"}],
			"analysis": {"summary": "Merged", "changes": ["renumbered"]}
		}`)
	})

	sub := "1"
	got, err := c.Compare(context.Background(), CompareRequest{LawType: models.LawBNS, Section: "2", Subsection: &sub})
	require.NoError(t, err)
	assert.Equal(t, "BNS 2(1)", got.Primary.ID)
	require.Len(t, got.Related, 1)
	assert.Equal(t, "Act", got.Related[0].Heading)
	assert.Equal(t, []string{"renumbered"}, got.Analysis.Changes)
}

func TestIngest_MultipartFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docingest", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "set-1", r.FormValue("id"))
		assert.Equal(t, "fir.txt", r.FormValue("filename"))
		assert.Equal(t, "true", r.FormValue("reset_db"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "fir.txt", hdr.Filename)
		assert.Equal(t, "first information report", string(body))

		io.WriteString(w, `{"id":"set-1","data":"12 chunks ingested successfully","error":""}`)
	})

	res, err := c.Ingest(context.Background(), IngestRequest{
		DocumentSetID: "set-1",
		Filename:      "fir.txt",
		Reset:         true,
		Body:          strings.NewReader("first information report"),
	})
	require.NoError(t, err)
	assert.Equal(t, "set-1", res.ID)
	assert.Equal(t, 12, res.Chunks)
	assert.Equal(t, "12 chunks ingested successfully", res.Message)
}

func TestIngest_BackendError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"id":"s","data":"","error":"unsupported file"}`)
	})

	_, err := c.Ingest(context.Background(), IngestRequest{
		DocumentSetID: "s",
		Filename:      "big.pdf",
		Body:          strings.NewReader("%PDF-1.4"),
	})

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "unsupported file", be.Message)
}

func TestQueryDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docquery", r.URL.Path)
		var req docQueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "set-9", req.ID)
		assert.Equal(t, "who is the accused?", req.Query)
		io.WriteString(w, `{"ID":"set-9","data":"Ramesh","error":""}`)
	})

	got, err := c.QueryDocument(context.Background(), "set-9", "who is the accused?")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh", got)
}

func TestParseChunkCount(t *testing.T) {
	assert.Equal(t, 12, parseChunkCount("12 chunks ingested successfully"))
	assert.Equal(t, 1, parseChunkCount("1 chunk ingested"))
	assert.Equal(t, 0, parseChunkCount("nothing new"))
}

func TestUserMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
