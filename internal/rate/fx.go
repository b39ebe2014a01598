package rate

import (
	"github.com/cabinworks/cabinbooks/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.service",
	fx.Provide(service.NewService),
)
