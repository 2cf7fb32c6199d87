package report

import (
	"context"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
)

// DatasetStore defines the dataset access the service needs.
type DatasetStore interface {
	Load(ctx context.Context) (dataset.Table, error)
}
