package config

import (
	"errors"

	"go.uber.org/fx"
)

var ErrCompanyNameRequired = errors.New("company name is required")

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewCompanyInfoHolder),
)
