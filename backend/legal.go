package backend

import (
	"context"

	"nyayasetu-web/models"
)

type agentRequest struct {
	Query string `json:"query"`
}

type agentResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// Ask sends a research question to the agent and returns its raw tagged reply
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	var out agentResponse
	err := c.postJSON(ctx, c.legalURL+"/agent", agentRequest{Query: query}, &out,
		"Failed to get a response from the research agent")
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// CaseLawQuery is the body of /case-law/search. Nil filters are sent as
// JSON null, which the backend reads as "no filter"
type CaseLawQuery struct {
	Query      string           `json:"query"`
	Court      *string          `json:"court"`
	FromDate   *string          `json:"from_date"`
	ToDate     *string          `json:"to_date"`
	SortBy     models.SortOrder `json:"sort_by"`
	MaxResults int              `json:"max_results"`
}

type caseLawResponse struct {
	Cases []models.CaseLaw `json:"cases"`
}

// SearchCaseLaw runs a judgment search
func (c *Client) SearchCaseLaw(ctx context.Context, q CaseLawQuery) ([]models.CaseLaw, error) {
	var out caseLawResponse
	if err := c.postJSON(ctx, c.legalURL+"/case-law/search", q, &out, "Failed to search cases"); err != nil {
		return nil, err
	}
	if out.Cases == nil {
		out.Cases = []models.CaseLaw{}
	}
	return out.Cases, nil
}

// CompareRequest is the body of /compare
type CompareRequest struct {
	LawType    models.LawType `json:"law_type"`
	Section    string         `json:"section"`
	Subsection *string        `json:"subsection"`
}

// Compare fetches a provision and its counterparts in the other code
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*models.Comparison, error) {
	var out models.Comparison
	if err := c.postJSON(ctx, c.legalURL+"/compare", req, &out, "Failed to fetch comparison"); err != nil {
		return nil, err
	}
	if out.Related == nil {
		out.Related = []models.SectionNode{}
	}
	if out.Analysis.Changes == nil {
		out.Analysis.Changes = []string{}
	}
	return &out, nil
}
