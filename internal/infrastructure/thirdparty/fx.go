package thirdparty

import "go.uber.org/fx"

var Module = fx.Module(
	"thirdparty",
	fx.Provide(NewMockAPI),
)
