package demo

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"trustseal/internal/ledger"
)

// Gateway is the demo-mode ledger.Gateway. It never touches a network:
// submissions return locally generated placeholder ids and lookups for those
// ids report existence with the current time as the block timestamp.
type Gateway struct{}

// TxPrefix marks placeholder transaction ids so callers and tests can tell
// them apart from real ledger ids.
const TxPrefix = "demo_tx_"

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func NewGateway() *Gateway {
	return &Gateway{}
}

var _ ledger.Gateway = (*Gateway)(nil)

// Token returns n random base36 characters, matching the placeholder id shape
// of the demo responses.
func Token(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return string(b)
}

func (g *Gateway) SubmitAttestation(_ context.Context, _ []byte) (string, error) {
	return TxPrefix + Token(9), nil
}

func (g *Gateway) GetTransaction(_ context.Context, txID string) (ledger.TxMeta, error) {
	if !strings.HasPrefix(txID, TxPrefix) {
		return ledger.TxMeta{ID: txID, Exists: false}, nil
	}
	return ledger.TxMeta{
		ID:             txID,
		Exists:         true,
		BlockTimestamp: time.Now().UTC(),
	}, nil
}
