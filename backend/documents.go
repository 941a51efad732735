package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
)

var chunkCount = regexp.MustCompile(`(\d+)\s+chunks?`)

// IngestRequest describes one document sent to /docingest
type IngestRequest struct {
	DocumentSetID string
	Filename      string
	Reset         bool
	Body          io.Reader
}

// IngestResult is the document backend's acknowledgement
type IngestResult struct {
	ID      string
	Message string
	Chunks  int
}

// docResponse is shared by /docingest ("id") and /docquery ("ID")
type docResponse struct {
	ID       string `json:"id"`
	LegacyID string `json:"ID"`
	Data     string `json:"data"`
	Error    string `json:"error"`
}

// Ingest uploads one document. The multipart body is streamed, never
// buffered whole
func (c *Client) Ingest(ctx context.Context, in IngestRequest) (*IngestResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeIngestForm(mw, in))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.docURL+"/docingest", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out docResponse
	if err := c.do(req, &out, "Failed to ingest document"); err != nil {
		// Unblocks the writer goroutine if the request ended before the body was consumed
		pr.CloseWithError(err)
		return nil, err
	}
	pr.Close()

	id := out.ID
	if id == "" {
		id = out.LegacyID
	}
	return &IngestResult{ID: id, Message: out.Data, Chunks: parseChunkCount(out.Data)}, nil
}

func writeIngestForm(mw *multipart.Writer, in IngestRequest) error {
	fields := [][2]string{
		{"id", in.DocumentSetID},
		{"filename", in.Filename},
		{"reset_db", strconv.FormatBool(in.Reset)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	part, err := mw.CreateFormFile("file", in.Filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Body); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	return mw.Close()
}

func parseChunkCount(msg string) int {
	m := chunkCount.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

type docQueryRequest struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// QueryDocument asks a question against the documents ingested under documentSetID
func (c *Client) QueryDocument(ctx context.Context, documentSetID, query string) (string, error) {
	var out docResponse
	err := c.postJSON(ctx, c.docURL+"/docquery", docQueryRequest{ID: documentSetID, Query: query}, &out,
		"Failed to query document")
	if err != nil {
		return "", err
	}
	return out.Data, nil
}
