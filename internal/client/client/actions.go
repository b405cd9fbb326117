package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
)

const actionsPath = "/api/actions"

// ActionsClient talks to the server's mint action over HTTP, the same way a
// wallet renderer would.
type ActionsClient struct {
	baseURL string
	http    *http.Client
}

func NewActionsClient(baseURL string, client *http.Client) *ActionsClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ActionsClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c *ActionsClient) Describe(ctx context.Context) (*models.ActionDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+actionsPath, nil)
	if err != nil {
		return nil, err
	}
	var d models.ActionDescriptor
	if err := c.do(req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Mint asks the server for a license transaction addressed to account.
func (c *ActionsClient) Mint(ctx context.Context, account models.Identity) (*models.ActionPostResponse, error) {
	body, err := json.Marshal(models.ActionPostRequest{Account: account.String()})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+actionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.ActionPostResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Transaction == "" {
		return nil, fmt.Errorf("%w: empty transaction", common.ErrorInternal)
	}
	return &resp, nil
}

func (c *ActionsClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var e models.ActionError
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			msg = e.Message
		}
		return fmt.Errorf("%w: %s", actionStatusError(resp.StatusCode), msg)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode action response: %w", err)
	}
	return nil
}

func actionStatusError(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return common.ErrInvalidRecipient
	case code == http.StatusUnprocessableEntity:
		return common.ErrSubmissionRejected
	case code == http.StatusServiceUnavailable || code == http.StatusBadGateway:
		return common.ErrUnavailable
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return common.ErrorInternal
	}
}
