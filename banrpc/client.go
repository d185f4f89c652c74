// Package banrpc is the native (BAN) node RPC collaborator: a thin client
// over the node's action-based JSON-over-HTTP protocol, mirroring the shape
// of the teacher's BGLRPC package. No example repo in the retrieval pack
// carries a library for this protocol family (it is not bitcoind-compatible
// JSON-RPC, which is what the teacher's go-bgld/go-bitcoind dependency
// speaks) — see DESIGN.md for why this one package uses net/http directly.
package banrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"banwbanbridge/config"
)

type Client struct {
	httpClient *http.Client
}

var client *Client

func GetClient() *Client {
	if client == nil {
		client = &Client{httpClient: &http.Client{Timeout: 10 * time.Second}}
	}
	return client
}

// call posts an action request to the node and decodes its JSON response
// into result, returning the node's "error" field (if any) as a Go error.
func (c *Client) call(ctx context.Context, action string, params map[string]interface{}, result interface{}) error {
	body := map[string]interface{}{"action": action}
	for k, v := range params {
		body[k] = v
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.Config.BAN.RPCURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return err
	}

	var errCheck struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errCheck); err == nil && errCheck.Error != "" {
		return fmt.Errorf("node RPC action %q: %s", action, errCheck.Error)
	}

	if result != nil {
		return json.Unmarshal(raw, result)
	}
	return nil
}
