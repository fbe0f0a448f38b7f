// Package client is a typed HTTP client of the learner API, used by the
// ops CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Process is synchronous and may run the whole pipeline; do not
		// time it out client side.
		http: &http.Client{Timeout: 0},
	}
}

func (c *Client) ListProjects(ctx context.Context, username string) (api.ProjectList, error) {
	var reply struct {
		Projects api.ProjectList `json:"projects"`
	}
	if err := c.get(ctx, c.projectsURL(username), &reply); err != nil {
		return nil, err
	}
	return reply.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, username string, id string) (*api.Project, error) {
	project := &api.Project{}
	if err := c.get(ctx, c.projectsURL(username)+"/"+url.PathEscape(id), project); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *Client) ProcessProject(ctx context.Context, username string, id string) (*api.ProcessReply, error) {
	reply := &api.ProcessReply{}
	endpoint := c.projectsURL(username) + "/" + url.PathEscape(id) + "/process"
	err := c.do(ctx, http.MethodPost, endpoint, nil, "", reply)
	// The trigger endpoint answers failed runs with a body too; surface
	// the reply when we managed to decode one.
	if err != nil && reply.Status == "" {
		return nil, err
	}
	return reply, nil
}

func (c *Client) UploadProject(ctx context.Context, username string, filename string, reader io.Reader) (*api.Project, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, reader); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.projectsURL(username), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	project := &api.Project{}
	if err := c.send(req, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *Client) Health(ctx context.Context) (*api.Health, error) {
	health := &api.Health{}
	if err := c.get(ctx, c.baseURL+"/health", health); err != nil {
		return nil, err
	}
	return health, nil
}

func (c *Client) projectsURL(username string) string {
	return fmt.Sprintf("%s/api/v1alpha1/users/%s/projects", c.baseURL, url.PathEscape(username))
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, "", out)
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := api.Error{}
		// Failure replies still carry a decodable body; fall back to the
		// bare status when they don't.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Message)
		}
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
