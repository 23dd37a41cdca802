package mocks

import (
	"context"

	"trustseal/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockNotaryRepository struct {
	mock.Mock
}

func (m *MockNotaryRepository) Create(ctx context.Context, rec *model.NotaryRecord) (*model.NotaryRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotaryRecord), args.Error(1)
}

func (m *MockNotaryRepository) FindByFingerprint(ctx context.Context, fp string) (*model.NotaryRecord, error) {
	args := m.Called(ctx, fp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotaryRecord), args.Error(1)
}
