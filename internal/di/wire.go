//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/RRPsystem/wbctx/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(AppSet))
}
