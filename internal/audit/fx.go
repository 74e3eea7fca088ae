package audit

import (
	"github.com/stocktrail/stocktrail/internal/audit/repository"
	"github.com/stocktrail/stocktrail/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
