package locking

import "go.uber.org/fx"

var Module = fx.Module("locking",
	fx.Provide(New),
)
