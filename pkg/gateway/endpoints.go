package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
)

// Graph data request types. TypeRoot sends no type parameter.
const (
	TypeRoot       = ""
	TypeCategories = "categories"
	TypeDiseases   = "diseases"
	TypeAlleles    = "alleles"
)

// GraphQuery selects one slice of the hierarchy.
type GraphQuery struct {
	Type         string
	CategoryID   string
	DiseaseID    string
	Filters      string
	Clicked      bool
	ShowSubtypes bool
}

func (q GraphQuery) values() url.Values {
	v := url.Values{}
	if q.Type != TypeRoot {
		v.Set("type", q.Type)
	}
	if q.CategoryID != "" {
		v.Set("category_id", q.CategoryID)
	}
	if q.DiseaseID != "" {
		v.Set("disease_id", q.DiseaseID)
	}
	v.Set("filters", q.Filters)
	v.Set("clicked", strconv.FormatBool(q.Clicked))
	v.Set("showSubtypes", strconv.FormatBool(q.ShowSubtypes))
	return v
}

// Graph is a decoded graph-data response.
type Graph struct {
	Nodes   []graph.Node
	Edges   []graph.Edge
	Visible []string
}

// GraphData fetches nodes, edges and the visible set for q. Records with an
// unknown node type are skipped with a warning.
func (c *Client) GraphData(ctx context.Context, q GraphQuery) (*Graph, error) {
	var resp GraphResponse
	if err := c.getJSON(ctx, EndpointGraphData, q.values(), &resp); err != nil {
		return nil, err
	}

	g := &Graph{
		Nodes:   make([]graph.Node, 0, len(resp.Nodes)),
		Edges:   make([]graph.Edge, 0, len(resp.Edges)),
		Visible: resp.Visible,
	}
	for _, d := range resp.Nodes {
		n, err := d.ToNode()
		if err != nil {
			c.logger.Warn("skipping node", logging.NodeKey(d.ID), logging.Error(err))
			continue
		}
		g.Nodes = append(g.Nodes, n)
	}
	for _, e := range resp.Edges {
		g.Edges = append(g.Edges, e.ToEdge())
	}
	return g, nil
}

// Diseases lists the disease names of a category. categoryID may carry the
// "category-" node id prefix.
func (c *Client) Diseases(ctx context.Context, categoryID, filters string, showSubtypes bool) ([]string, error) {
	v := url.Values{}
	v.Set("category", strings.TrimPrefix(categoryID, string(graph.KindCategory)+"-"))
	v.Set("filters", filters)
	v.Set("showSubtypes", strconv.FormatBool(showSubtypes))

	var resp diseasesResponse
	if err := c.getJSON(ctx, EndpointDiseases, v, &resp); err != nil {
		return nil, err
	}
	return resp.Diseases, nil
}

// Info fetches pairwise statistics for an allele and disease, both given by
// full label.
func (c *Client) Info(ctx context.Context, allele, disease string) (*Info, error) {
	v := url.Values{}
	v.Set("allele", allele)
	v.Set("disease", disease)

	var info Info
	if err := c.getJSON(ctx, EndpointInfo, v, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PathToNode returns the node ids leading from the root to a disease.
func (c *Client) PathToNode(ctx context.Context, disease string) ([]string, error) {
	v := url.Values{}
	v.Set("disease", disease)

	var resp pathResponse
	if err := c.getJSON(ctx, EndpointPath, v, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &FetchError{Endpoint: EndpointPath, Cause: errors.New(resp.Error)}
	}
	return resp.Path, nil
}

// CombinedAssociations fetches pairwise gene association records for a
// disease.
func (c *Client) CombinedAssociations(ctx context.Context, disease string, showSubtypes bool) ([]Association, error) {
	v := url.Values{}
	v.Set("disease", disease)
	v.Set("show_subtypes", strconv.FormatBool(showSubtypes))

	var resp []Association
	if err := c.getJSON(ctx, EndpointAssociations, v, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Export downloads the filtered dataset as CSV.
func (c *Client) Export(ctx context.Context, filters string) (*Export, error) {
	v := url.Values{}
	v.Set("filters", filters)

	resp, op, err := c.do(ctx, EndpointExport, v)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(EndpointExport, resp.StatusCode, op, int64(len(body)))
		err = &FetchError{Endpoint: EndpointExport, Status: resp.StatusCode, Cause: err}
		op.EndError(err)
		return nil, err
	}
	c.record(EndpointExport, resp.StatusCode, op, int64(len(body)))

	rows := -1
	if h := resp.Header.Get("Dataset-Length"); h != "" {
		n, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			err = &FetchError{Endpoint: EndpointExport, Status: resp.StatusCode, Cause: fmt.Errorf("%w: Dataset-Length %q", ErrDecode, h)}
			op.EndError(err)
			return nil, err
		}
		rows = n
	}
	op.End(logging.Status(resp.StatusCode), logging.Count(rows))
	return &Export{Rows: rows, CSV: body}, nil
}
