package mocks

import (
	"context"
	"errors"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
)

// MockDatasetStore is a function-field mock of the dataset store interface
// for testing the report service.
type MockDatasetStore struct {
	LoadFunc func(ctx context.Context) (dataset.Table, error)
}

// Load implements the DatasetStore interface
func (m *MockDatasetStore) Load(ctx context.Context) (dataset.Table, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return dataset.Table{}, errors.New("LoadFunc not implemented")
}
