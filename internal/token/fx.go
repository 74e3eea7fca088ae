package token

import (
	"github.com/stocktrail/stocktrail/internal/token/repository"
	"github.com/stocktrail/stocktrail/internal/token/service"
	"go.uber.org/fx"
)

var Module = fx.Module("token.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
