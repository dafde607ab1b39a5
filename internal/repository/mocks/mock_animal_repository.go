package mocks

import (
	"context"

	"animalshelter/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAnimalRepository struct {
	mock.Mock
}

func (m *MockAnimalRepository) Insert(ctx context.Context, rec model.Record) (any, error) {
	args := m.Called(ctx, rec)
	return args.Get(0), args.Error(1)
}

func (m *MockAnimalRepository) Find(ctx context.Context, q model.Query) ([]model.Record, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockAnimalRepository) UpdateMany(ctx context.Context, q model.Query, values model.Record) (int64, error) {
	args := m.Called(ctx, q, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnimalRepository) DeleteMany(ctx context.Context, q model.Query) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnimalRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
