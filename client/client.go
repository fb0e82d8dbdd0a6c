package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/fabvote/fabvote-gateway"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "fabvote-client"
	headerErrorKind  = "X-Error-Kind"
)

// Client talks to a running gateway. It keeps the user cookie set by Login
// in its jar so later calls such as VoteCasting are made as that user.
type Client struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	Code int
	Kind string
	Body string
}

func (e *StatusError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("status %d (%s): %s", e.Code, e.Kind, e.Body)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %v", err)
	}

	c := &Client{
		userAgent: defaultUserAgent,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
	c.client = &http.Client{
		Timeout:   defaultTimeout,
		Jar:       jar,
		Transport: c,
	}
	return c, nil
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Code: resp.StatusCode,
			Kind: resp.Header.Get(headerErrorKind),
			Body: string(data),
		}
	}

	return data, nil
}

// HttpRequest performs the call and decodes a JSON response into response.
func (c *Client) HttpRequest(ctx context.Context, method, path string, body any, response any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// HttpRequestText performs the call and returns the body as text.
func (c *Client) HttpRequestText(ctx context.Context, method, path string, body any) (string, error) {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) Hello(ctx context.Context) (fabvote.Quote, error) {
	var quote fabvote.Quote
	err := c.HttpRequest(ctx, http.MethodGet, "/", nil, &quote)
	return quote, err
}

func (c *Client) RegisterUser(ctx context.Context, req fabvote.RegisterUserRequest) (fabvote.StatusResponse, error) {
	var status fabvote.StatusResponse
	err := c.HttpRequest(ctx, http.MethodPost, "/registerUser", req, &status)
	return status, err
}

func (c *Client) Login(ctx context.Context, req fabvote.LoginUserRequest) (fabvote.User, error) {
	var user fabvote.User
	err := c.HttpRequest(ctx, http.MethodPost, "/loginUser", req, &user)
	return user, err
}

func (c *Client) Logout(ctx context.Context) (string, error) {
	return c.HttpRequestText(ctx, http.MethodGet, "/logoutUser", nil)
}

func (c *Client) ShowAllCandidates(ctx context.Context, electionID string) ([]fabvote.Candidate, error) {
	var candidates []fabvote.Candidate
	err := c.HttpRequest(ctx, http.MethodPost, "/showallCandidate", fabvote.ElectionIDRequest{ElectionID: electionID}, &candidates)
	return candidates, err
}

func (c *Client) ShowAllElections(ctx context.Context, doctype string) ([]fabvote.Election, error) {
	var elections []fabvote.Election
	err := c.HttpRequest(ctx, http.MethodPost, "/showallElections", fabvote.ShowAllElectionsRequest{Doctype: doctype}, &elections)
	return elections, err
}

func (c *Client) CreateElection(ctx context.Context, req fabvote.CreateElectionRequest) (string, error) {
	return c.HttpRequestText(ctx, http.MethodPost, "/createElection", req)
}

func (c *Client) AddCandidate(ctx context.Context, req fabvote.AddCandidateRequest) (string, error) {
	return c.HttpRequestText(ctx, http.MethodPost, "/addCandidate", req)
}

func (c *Client) VoteCasting(ctx context.Context, req fabvote.VoteCastingRequest) (fabvote.StatusResponse, error) {
	var status fabvote.StatusResponse
	err := c.HttpRequest(ctx, http.MethodPost, "/votecasting", req, &status)
	return status, err
}

func (c *Client) StopElection(ctx context.Context, id string) (string, error) {
	return c.HttpRequestText(ctx, http.MethodPost, "/stopelection", fabvote.StopElectionRequest{ID: id})
}

func (c *Client) CalculateResult(ctx context.Context, electionID string) ([]fabvote.ElectionResult, error) {
	var results []fabvote.ElectionResult
	err := c.HttpRequest(ctx, http.MethodPost, "/calculateResult", fabvote.ElectionIDRequest{ElectionID: electionID}, &results)
	return results, err
}

func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var health map[string]string
	err := c.HttpRequest(ctx, http.MethodGet, "/health", nil, &health)
	return health, err
}

func (c *Client) Transactions(ctx context.Context, limit int) ([]fabvote.TransactionLog, error) {
	path := "/transactions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []fabvote.TransactionLog
	err := c.HttpRequest(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}
