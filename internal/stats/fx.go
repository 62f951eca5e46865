package stats

import (
	"github.com/pixelpasture/unicornshop/internal/stats/repository"
	"github.com/pixelpasture/unicornshop/internal/stats/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stats",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
