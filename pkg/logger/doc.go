// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The single factory New creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, static attributes
// applied to every record, and ContextExtractor callbacks that pull
// request-scoped values (such as the authenticated user id) out of the
// context on every log call.
//
// Helper constructors in attr.go return the slog.Attr instances used across
// the engine so attribute naming stays consistent: UserID, NotificationID,
// WebhookID, DeliveryID, EventType, Channel, Attempt, StatusCode.
//
// Usage:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "notifyd"),
//	    logger.WithContextValue("user_id", userIDContextKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "webhook delivered",
//	    logger.WebhookID(wh.ID),
//	    logger.Attempt(3),
//	)
package logger
