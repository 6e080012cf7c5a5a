package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bitfsorg/certledger-go/identity"
)

// CodeDuplicate is the remote error code for a hash that is already registered.
const CodeDuplicate = -32001

// Request headers carrying the caller identity.
const (
	HeaderSender    = "X-Certledger-Sender"
	HeaderPublicKey = "X-Certledger-Pubkey"
	HeaderSignature = "X-Certledger-Signature"
)

// Signer authenticates outgoing calls. *identity.Identity implements it.
type Signer interface {
	Principal() identity.Principal
	PublicKeyHex() string
	Sign(msg []byte) ([]byte, error)
}

// Compile-time interface check.
var _ Signer = (*identity.Identity)(nil)

// RPCClient is a JSON-RPC client for the remote certificate store.
// Each request body is signed by the configured Signer; without one,
// calls are sent as the anonymous principal.
type RPCClient struct {
	url    string
	signer Signer
	client *http.Client
	nextID atomic.Int64
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRPCClient creates a client for the canister endpoint described by cfg.
// signer may be nil.
func NewRPCClient(cfg RPCConfig, signer Signer) *RPCClient {
	return &RPCClient{
		url:    cfg.Endpoint(),
		signer: signer,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Sender returns the principal calls are made as.
func (c *RPCClient) Sender() identity.Principal {
	if c.signer == nil {
		return identity.Anonymous()
	}
	return c.signer.Principal()
}

// Call invokes method and decodes the result into result, which may be nil.
//
// Call returns ErrConnectionFailed if the endpoint cannot be reached or answers
// with a non-2xx status, ErrInvalidResponse if the response cannot be decoded,
// and a *RemoteError if the store rejects the call.
func (c *RPCClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ledger: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.sign(req, body); err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}

	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response ID mismatch: expected %d, got %d",
			ErrInvalidResponse, reqBody.ID, rpcResp.ID)
	}

	if rpcResp.Error != nil {
		return &RemoteError{Method: method, Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}

	return nil
}

func (c *RPCClient) sign(req *http.Request, body []byte) error {
	if c.signer == nil {
		req.Header.Set(HeaderSender, identity.Anonymous().String())
		return nil
	}
	sig, err := c.signer.Sign(body)
	if err != nil {
		return fmt.Errorf("ledger: sign request: %w", err)
	}
	req.Header.Set(HeaderSender, c.signer.Principal().String())
	req.Header.Set(HeaderPublicKey, c.signer.PublicKeyHex())
	req.Header.Set(HeaderSignature, hex.EncodeToString(sig))
	return nil
}
