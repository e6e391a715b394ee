// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package chain implements the minimal Substrate JSON-RPC client the CLI
// needs to submit a create-blueprint extrinsic: runtime version and
// genesis hash discovery, account nonce lookup, Services pallet storage
// reads, and extrinsic submission.
package chain

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tanglekit/tangle-cli/internal/chain/hashing"
	"github.com/tanglekit/tangle-cli/internal/logging"
)

// Storage names of the Services pallet, matching the on-chain metadata.
const (
	servicesPallet         = "Services"
	nextBlueprintIDStorage = "NextBlueprintId"
)

// Client talks JSON-RPC to a Tangle node over HTTP.
type Client struct {
	url    string
	http   *retryablehttp.Client
	nextID atomic.Uint64
}

// RuntimeVersion carries the fields of state_getRuntimeVersion the signer
// needs for the extrinsic payload.
type RuntimeVersion struct {
	SpecVersion        uint32 `json:"specVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
}

// NewClient returns a client for the given RPC URL. Transient transport
// errors are retried with backoff; RPC-level errors are not.
func NewClient(rpcURL string) (*Client, error) {
	if !strings.HasPrefix(rpcURL, "http://") && !strings.HasPrefix(rpcURL, "https://") {
		return nil, fmt.Errorf("unsupported RPC URL %q: expected http(s)", rpcURL)
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil
	return &Client{url: rpcURL, http: rc}, nil
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string { return c.url }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs a single JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Debugf("rpc -> %s %s", c.url, method)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc call %s: unexpected status %s", method, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("rpc call %s: read response: %w", method, err)
	}

	var rr rpcResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return fmt.Errorf("rpc call %s: decode response: %w", method, err)
	}
	if rr.Error != nil {
		return fmt.Errorf("rpc call %s: %w", method, rr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("rpc call %s: decode result: %w", method, err)
	}
	return nil
}

// GetRuntimeVersion fetches the node's current runtime version.
func (c *Client) GetRuntimeVersion(ctx context.Context) (*RuntimeVersion, error) {
	var rv RuntimeVersion
	if err := c.call(ctx, "state_getRuntimeVersion", nil, &rv); err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetGenesisHash fetches the hash of block 0.
func (c *Client) GetGenesisHash(ctx context.Context) ([]byte, error) {
	var hexHash string
	if err := c.call(ctx, "chain_getBlockHash", []any{0}, &hexHash); err != nil {
		return nil, err
	}
	h, err := decodeHex(hexHash)
	if err != nil {
		return nil, fmt.Errorf("decode genesis hash: %w", err)
	}
	if len(h) != 32 {
		return nil, fmt.Errorf("genesis hash must be 32 bytes, got %d", len(h))
	}
	return h, nil
}

// GetAccountNextIndex fetches the next nonce for an SS58 address.
func (c *Client) GetAccountNextIndex(ctx context.Context, address string) (uint64, error) {
	var nonce uint64
	if err := c.call(ctx, "system_accountNextIndex", []any{address}, &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

// GetStorage reads a raw storage value. It returns nil when the key is
// unset.
func (c *Client) GetStorage(ctx context.Context, key []byte) ([]byte, error) {
	var hexValue *string
	params := []any{"0x" + hex.EncodeToString(key)}
	if err := c.call(ctx, "state_getStorage", params, &hexValue); err != nil {
		return nil, err
	}
	if hexValue == nil {
		return nil, nil
	}
	return decodeHex(*hexValue)
}

// NextBlueprintID reads the Services pallet's blueprint ID counter. An
// unset counter means no blueprint has been created yet.
func (c *Client) NextBlueprintID(ctx context.Context) (uint64, error) {
	raw, err := c.GetStorage(ctx, hashing.StorageKey(servicesPallet, nextBlueprintIDStorage))
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("unexpected NextBlueprintId storage length %d", len(raw))
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// SubmitExtrinsic submits a signed extrinsic and returns its 0x-hex hash
// as reported by the node.
func (c *Client) SubmitExtrinsic(ctx context.Context, extrinsic []byte) (string, error) {
	var hash string
	params := []any{"0x" + hex.EncodeToString(extrinsic)}
	if err := c.call(ctx, "author_submitExtrinsic", params, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
