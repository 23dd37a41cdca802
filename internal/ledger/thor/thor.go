package thor

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"trustseal/internal/config"
	"trustseal/internal/ledger"
)

// Client implements ledger.Gateway against a Thor-compatible node gateway
// speaking JSON over HTTP. Attestations are self-addressed zero-value
// transactions whose sole purpose is carrying the payload on-chain; signing
// happens behind the gateway with the configured identity.
// Safe for concurrent use.
type Client struct {
	http    *http.Client
	nodeURL string
	signer  string
}

// New creates a ledger client for the configured node.
// It validates configuration only; connectivity problems surface per request
// as ledger.ErrUnavailable.
func New(cfg config.LedgerConfig) (*Client, error) {
	if cfg.NodeURL == "" {
		return nil, fmt.Errorf("ledger node url is required")
	}
	if cfg.SignerAddress == "" {
		return nil, fmt.Errorf("ledger signer address is required")
	}

	return &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		nodeURL: strings.TrimRight(cfg.NodeURL, "/"),
		signer:  cfg.SignerAddress,
	}, nil
}

var _ ledger.Gateway = (*Client)(nil)

// submitRequest is the node gateway's transaction submission body.
// from == to and value 0: the transaction only carries data.
type submitRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value int64  `json:"value"`
	Data  string `json:"data"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// transaction mirrors the node's GET /transactions/{id} response. The node
// answers 200 with a JSON null body for ids it has never seen.
type transaction struct {
	ID   string `json:"id"`
	Meta *struct {
		BlockNumber    int64 `json:"blockNumber"`
		BlockTimestamp int64 `json:"blockTimestamp"`
	} `json:"meta"`
}

// SubmitAttestation submits payload as 0x-prefixed hex transaction data.
func (c *Client) SubmitAttestation(ctx context.Context, payload []byte) (string, error) {
	body, err := json.Marshal(submitRequest{
		From:  c.signer,
		To:    c.signer,
		Value: 0,
		Data:  "0x" + hex.EncodeToString(payload),
	})
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nodeURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ledger.ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ledger.ErrRejected, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out submitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ledger.ErrRejected, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: empty transaction id", ledger.ErrRejected)
	}
	return out.ID, nil
}

// GetTransaction fetches metadata for txID. A null body means the ledger does
// not know the id and yields Exists=false without an error.
func (c *Client) GetTransaction(ctx context.Context, txID string) (ledger.TxMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL+"/transactions/"+txID, nil)
	if err != nil {
		return ledger.TxMeta{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ledger.TxMeta{}, fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ledger.TxMeta{}, fmt.Errorf("%w: read response: %v", ledger.ErrUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ledger.TxMeta{ID: txID, Exists: false}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ledger.TxMeta{}, fmt.Errorf("%w: status %d: %s", ledger.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var tx *transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return ledger.TxMeta{}, fmt.Errorf("%w: decode response: %v", ledger.ErrUnavailable, err)
	}
	if tx == nil {
		return ledger.TxMeta{ID: txID, Exists: false}, nil
	}

	meta := ledger.TxMeta{ID: tx.ID, Exists: true}
	if tx.Meta != nil {
		meta.BlockNumber = tx.Meta.BlockNumber
		meta.BlockTimestamp = time.Unix(tx.Meta.BlockTimestamp, 0).UTC()
	}
	return meta, nil
}
