package client

// http_client.go = talks to the reportam comment API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reportam/internal/microservices/http-api/dto"
)

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Details    []dto.FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (status %d, %d field errors)", e.Message, e.StatusCode, len(e.Details))
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set admin bearer token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// ListComments fetches one page of a report's comments, newest first
func (c *HTTPClient) ListComments(reportID string, page, limit int) (*dto.PaginatedCommentResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result dto.PaginatedCommentResponse
	path := "/api/reports/" + url.PathEscape(reportID) + "/comments?" + q.Encode()
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetThread fetches the full two-level thread of a report
func (c *HTTPClient) GetThread(reportID string) (*dto.ThreadResponse, error) {
	var result dto.ThreadResponse
	if err := c.do(http.MethodGet, "/api/reports/"+url.PathEscape(reportID)+"/comments/tree", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateComment posts a comment, or a reply when request.ParentID is set
func (c *HTTPClient) CreateComment(reportID string, request *dto.CreateCommentDTO) (*dto.CreateCommentResponse, error) {
	var result dto.CreateCommentResponse
	if err := c.do(http.MethodPost, "/api/reports/"+url.PathEscape(reportID)+"/comments", request, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleLike likes or unlikes a comment for the given voter token
func (c *HTTPClient) ToggleLike(commentID, voterToken string) (*dto.LikeResponse, error) {
	var body any
	if voterToken != "" {
		body = dto.LikeCommentDTO{VoterToken: voterToken}
	}

	var result dto.LikeResponse
	if err := c.do(http.MethodPost, "/api/comments/"+url.PathEscape(commentID)+"/like", body, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateComment edits a comment's text, proving ownership with fingerprint
func (c *HTTPClient) UpdateComment(commentID string, request *dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	if err := c.do(http.MethodPatch, "/api/comments/"+url.PathEscape(commentID), request, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteComment deletes a comment; with a token set the admin route is used
func (c *HTTPClient) DeleteComment(commentID, fingerprint string) error {
	if c.token != "" {
		return c.do(http.MethodDelete, "/api/admin/comments/"+url.PathEscape(commentID), nil, http.StatusOK, nil)
	}
	return c.do(http.MethodDelete, "/api/comments/"+url.PathEscape(commentID), dto.DeleteCommentDTO{Fingerprint: fingerprint}, http.StatusOK, nil)
}

// Recount asks the server to recompute a report's comment count (admin only)
func (c *HTTPClient) Recount(reportID string) (*dto.RecountResponse, error) {
	var result dto.RecountResponse
	if err := c.do(http.MethodPost, "/api/admin/reports/"+url.PathEscape(reportID)+"/recount", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) do(method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode != wantStatus {
		var errResp dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			errResp.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Details: errResp.Details}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
