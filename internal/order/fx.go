package order

import (
	"github.com/stocktrail/stocktrail/internal/order/repository"
	"github.com/stocktrail/stocktrail/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
