package app

import (
	"github.com/cleitonmarx/symbiont"

	"github.com/nickspeelman/reflect/internal/adapters/inbound/http"
	"github.com/nickspeelman/reflect/internal/adapters/inbound/workers"
	"github.com/nickspeelman/reflect/internal/adapters/outbound/config"
	"github.com/nickspeelman/reflect/internal/adapters/outbound/log"
	"github.com/nickspeelman/reflect/internal/adapters/outbound/modelrunner"
	"github.com/nickspeelman/reflect/internal/adapters/outbound/postgres"
	"github.com/nickspeelman/reflect/internal/adapters/outbound/time"
	"github.com/nickspeelman/reflect/internal/semantics"
	"github.com/nickspeelman/reflect/internal/telemetry"
	"github.com/nickspeelman/reflect/internal/usecases"
)

// NewReflectApp creates and returns a new instance of the Reflect application.
func NewReflectApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitLogger{},
			&telemetry.InitOpenTelemetry{},
			&telemetry.InitHttpClient{},
			&config.InitVaultProvider{},
			&postgres.InitDB{},
			&postgres.InitUnitOfWork{},
			&postgres.InitEntryRepository{},
			&postgres.InitThemeRepository{},
			&time.InitCurrentTimeProvider{},
			&modelrunner.InitEncoder{},
			&modelrunner.InitClassifier{},
			&modelrunner.InitGenerator{},

			&semantics.InitAnchorIndex{},
			&semantics.InitAnalyzer{},
			&semantics.InitLabeler{},
			&semantics.InitThemeEngine{},
			&semantics.InitSentimentEnsemble{},

			&usecases.InitUnlabeledThemeQueue{},
			&usecases.InitCreateEntry{},
			&usecases.InitListEntries{},
			&usecases.InitGetEntry{},
			&usecases.InitListRelatedEntries{},
			&usecases.InitListThemes{},
			&usecases.InitRenameTheme{},
			&usecases.InitInferSentiment{},
			&usecases.InitGetDailyPrompt{},
		).
		Host(
			&http.ReflectServer{},
			&workers.ThemeNamer{},
		).
		Introspect(&MermaidGraphIntrospector{})
}
