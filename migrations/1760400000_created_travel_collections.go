package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		return EnsureCollections(app)
	}, func(app core.App) error {
		return DropCollections(app)
	})
}
