package mocks

import (
	"context"

	"animalshelter/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAnimalService struct {
	mock.Mock
}

func (m *MockAnimalService) Create(ctx context.Context, rec model.Record) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnimalService) Read(ctx context.Context, q model.Query) []model.Record {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Record)
}

func (m *MockAnimalService) Update(ctx context.Context, query, newValues any) (int64, error) {
	args := m.Called(ctx, query, newValues)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnimalService) Delete(ctx context.Context, query any) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnimalService) FilterByRescueType(ctx context.Context, label any) ([]model.Record, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}
