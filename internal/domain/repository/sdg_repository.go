package repository

import (
	"context"
	"errors"

	"carbonledger/internal/domain/entity"
)

// ErrSDGNotFound is returned when an SDG id is outside the reference list.
var ErrSDGNotFound = errors.New("sdg not found")

// SDGRepository reads the fixed SDG reference list.
type SDGRepository interface {
	List(ctx context.Context) ([]*entity.SDG, error)
	FindByID(ctx context.Context, id int) (*entity.SDG, error)
}
