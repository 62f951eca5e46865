package unicorn

import (
	"github.com/pixelpasture/unicornshop/internal/unicorn/repository"
	"github.com/pixelpasture/unicornshop/internal/unicorn/service"
	"go.uber.org/fx"
)

var Module = fx.Module("unicorn",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewGenerator),
)
