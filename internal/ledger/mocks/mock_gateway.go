package mocks

import (
	"context"

	"trustseal/internal/ledger"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SubmitAttestation(ctx context.Context, payload []byte) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetTransaction(ctx context.Context, txID string) (ledger.TxMeta, error) {
	args := m.Called(ctx, txID)
	return args.Get(0).(ledger.TxMeta), args.Error(1)
}
