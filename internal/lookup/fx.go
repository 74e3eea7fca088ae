package lookup

import "go.uber.org/fx"

var Module = fx.Module("lookup.repository",
	fx.Provide(NewRepository),
	fx.Provide(NewVocabulary),
)
