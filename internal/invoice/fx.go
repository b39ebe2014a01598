package invoice

import (
	"github.com/cabinworks/cabinbooks/internal/invoice/render"
	"github.com/cabinworks/cabinbooks/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.NewService),
	fx.Provide(render.New),
)
