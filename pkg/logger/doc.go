// Package logger builds *slog.Logger values with functional options and a
// small set of attribute helpers so that field names stay consistent.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler in LogHandlerDecorator, which adds attributes extracted from the
// record's context (for example a request id) on every Handle call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, cfg.Name),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "two-factor lockout reached",
//	    logger.UserID(userID),
//	    logger.Attempts(n),
//	)
//
// Components that accept a logger default to Discard when none is given.
//
// Never pass secrets, one-time codes or their digests to a logger.
package logger
