// Package logger provides a singleton Zap logger with context-based scoping.
//
// The singleton is initialized once with Init(); every other caller reaches
// it through L() or From(ctx). A caller holding a request-scoped logger can
// stash it in the context with ToContext and downstream code picks it up
// transparently with From.
//
// Environments: "dev" uses a colored console encoder, "prod" uses JSON.
// Levels: debug, info, warn, error.
//
// Initialization (once, in main):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),
//	    Level: os.Getenv("LOG_LEVEL"),
//	})
//	defer logger.Sync()
//
// In library code:
//
//	log := logger.From(ctx)
//	log.Info("task created", logger.TaskID(id))
package logger
