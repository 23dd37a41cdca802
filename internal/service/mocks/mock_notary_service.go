package mocks

import (
	"context"
	"io"

	"trustseal/internal/payment"
	"trustseal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockNotaryService struct {
	mock.Mock
}

func (m *MockNotaryService) Notarize(ctx context.Context, r io.Reader, meta service.FileMeta, paymentSessionID string) (*service.NotarizeResult, error) {
	args := m.Called(ctx, r, meta, paymentSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotarizeResult), args.Error(1)
}

func (m *MockNotaryService) Verify(ctx context.Context, fp string) (*service.VerifyResult, error) {
	args := m.Called(ctx, fp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerifyResult), args.Error(1)
}

func (m *MockNotaryService) CreatePaymentSession(ctx context.Context, fileName string) (*payment.Session, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockNotaryService) VerifyPayment(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockNotaryService) ConfirmPayment(payload []byte, signature string) (string, bool, error) {
	args := m.Called(payload, signature)
	return args.String(0), args.Bool(1), args.Error(2)
}
