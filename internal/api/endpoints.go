package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// ResourcePath returns the collection path of a record kind.
func ResourcePath(kind domain.RecordKind) string {
	switch kind {
	case domain.KindEnterprise:
		return "/api/enterprises/"
	case domain.KindProjectEnterprise:
		return "/api/project-enterprise/"
	default:
		return "/api/projects/v2/"
	}
}

func itemPath(kind domain.RecordKind, id int) string {
	return ResourcePath(kind) + strconv.Itoa(id) + "/"
}

// Permissions fetches the session's capability set.
func (c *Client) Permissions(ctx context.Context) (domain.Permissions, error) {
	var p domain.Permissions
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/user/permissions/"}, &p); err != nil {
		return domain.Permissions{}, fmt.Errorf("fetching permissions: %w", err)
	}
	return p, nil
}

// FieldQuery selects the specific fields of a (cluster, type, sector)
// combination. With a ProjectID the server includes that project's actual
// indicators.
type FieldQuery struct {
	Cluster     int
	ProjectType int
	Sector      int
	ProjectID   *int
}

// Key identifies the query for caching.
func (q FieldQuery) Key() string {
	key := fmt.Sprintf("%d/%d/%d", q.Cluster, q.ProjectType, q.Sector)
	if q.ProjectID != nil {
		key += "?project=" + strconv.Itoa(*q.ProjectID)
	}
	return key
}

func (q FieldQuery) path() string {
	params := url.Values{}
	if q.ProjectID != nil {
		params.Set("project_id", strconv.Itoa(*q.ProjectID))
	} else {
		params.Set("include_actuals", "false")
	}
	return fmt.Sprintf("/api/project-cluster/%d/type/%d/sector/%d/fields/?%s",
		q.Cluster, q.ProjectType, q.Sector, params.Encode())
}

// Fields fetches the field descriptors for q. Unknown data types are
// rejected so that widget dispatch never sees them.
func (c *Client) Fields(ctx context.Context, q FieldQuery) ([]domain.FieldDescriptor, error) {
	var resp struct {
		Fields []domain.FieldDescriptor `json:"fields"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: q.path()}, &resp); err != nil {
		return nil, fmt.Errorf("fetching fields %s: %w", q.Key(), err)
	}
	for _, f := range resp.Fields {
		if _, err := domain.ParseDataType(string(f.DataType)); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name(), err)
		}
	}
	return resp.Fields, nil
}

// Get fetches one record as raw values.
func (c *Client) Get(ctx context.Context, kind domain.RecordKind, id int) (domain.Values, error) {
	var out domain.Values
	if err := c.do(ctx, request{method: http.MethodGet, path: itemPath(kind, id)}, &out); err != nil {
		return nil, fmt.Errorf("fetching %s %d: %w", kind, id, err)
	}
	return out, nil
}

// Create posts a new record and returns the persisted entity.
func (c *Client) Create(ctx context.Context, kind domain.RecordKind, payload map[string]any) (domain.Values, error) {
	var out domain.Values
	if err := c.do(ctx, request{method: http.MethodPost, path: ResourcePath(kind), body: payload}, &out); err != nil {
		return nil, fmt.Errorf("creating %s: %w", kind, err)
	}
	return out, nil
}

// Update replaces a record and returns the persisted entity.
func (c *Client) Update(ctx context.Context, kind domain.RecordKind, id int, payload map[string]any) (domain.Values, error) {
	var out domain.Values
	if err := c.do(ctx, request{method: http.MethodPut, path: itemPath(kind, id), body: payload}, &out); err != nil {
		return nil, fmt.Errorf("updating %s %d: %w", kind, id, err)
	}
	return out, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, kind domain.RecordKind, id int) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: itemPath(kind, id)}, nil); err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	return nil
}

// Transition posts a workflow transition for a saved record.
func (c *Client) Transition(ctx context.Context, kind domain.RecordKind, id int, tr workflow.Transition) error {
	req := request{method: http.MethodPost, path: itemPath(kind, id) + tr.Path}
	if tr.Body != nil {
		req.body = tr.Body
	}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("%s %s %d: %w", tr.Path, kind, id, err)
	}
	return nil
}

// PreviousTranche is the validation state of an earlier tranche of a
// multi-tranche project.
type PreviousTranche struct {
	ID      int           `json:"id"`
	Tranche int           `json:"tranche"`
	Values  domain.Values `json:"values"`
}

// PreviousTranches lists the tranches that precede a project.
func (c *Client) PreviousTranches(ctx context.Context, projectID int) ([]PreviousTranche, error) {
	var out []PreviousTranche
	path := itemPath(domain.KindProject, projectID) + "list_previous_tranches/"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, fmt.Errorf("listing previous tranches of %d: %w", projectID, err)
	}
	return out, nil
}

// AssociateRequest groups projects into a meta-project.
type AssociateRequest struct {
	ProjectIDs   []int `json:"project_ids"`
	LeadAgencyID *int  `json:"lead_agency_id,omitempty"`
}

// Associate links projects under one meta-project.
func (c *Client) Associate(ctx context.Context, req AssociateRequest) error {
	path := ResourcePath(domain.KindProject) + "associate_projects/"
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: req}, nil); err != nil {
		return fmt.Errorf("associating projects %v: %w", req.ProjectIDs, err)
	}
	return nil
}

// Disassociate detaches one component from its meta-project.
func (c *Client) Disassociate(ctx context.Context, projectID int) error {
	path := itemPath(domain.KindProject, projectID) + "disassociate_component/"
	if err := c.do(ctx, request{method: http.MethodPost, path: path}, nil); err != nil {
		return fmt.Errorf("disassociating project %d: %w", projectID, err)
	}
	return nil
}

// RemoveAssociation dissolves the meta-project the project belongs to.
func (c *Client) RemoveAssociation(ctx context.Context, projectID int) error {
	path := itemPath(domain.KindProject, projectID) + "remove_association/"
	if err := c.do(ctx, request{method: http.MethodPost, path: path}, nil); err != nil {
		return fmt.Errorf("removing association of project %d: %w", projectID, err)
	}
	return nil
}

// SectorOptions fetches the sectors valid for a cluster and project type.
func (c *Client) SectorOptions(ctx context.Context, cluster, projectType int) ([]domain.Option, error) {
	var out []domain.Option
	path := fmt.Sprintf("/api/project-cluster/%d/type/%d/sectors/", cluster, projectType)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, fmt.Errorf("fetching sectors for %d/%d: %w", cluster, projectType, err)
	}
	return out, nil
}

// Substances fetches the controlled substance lookup.
func (c *Client) Substances(ctx context.Context) ([]domain.Option, error) {
	var out []domain.Option
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/substances/"}, &out); err != nil {
		return nil, fmt.Errorf("fetching substances: %w", err)
	}
	return out, nil
}

// Blends fetches the blend lookup.
func (c *Client) Blends(ctx context.Context) ([]domain.Option, error) {
	var out []domain.Option
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/blends/"}, &out); err != nil {
		return nil, fmt.Errorf("fetching blends: %w", err)
	}
	return out, nil
}
