package repository

import (
	"context"
	"database/sql"

	"laundry-system/internal/domain"
)

type OrderRepositoryInterface interface {
	GetOrder(ctx context.Context, collection domain.Collection, id int64) (*domain.Order, error)
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, error)
	ApplyPatch(ctx context.Context, collection domain.Collection, id int64, patch *domain.Patch) (*domain.Order, error)
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}
