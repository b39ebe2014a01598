package job

import (
	"github.com/cabinworks/cabinbooks/internal/job/service"
	"go.uber.org/fx"
)

var Module = fx.Module("job.service",
	fx.Provide(service.NewService),
)
