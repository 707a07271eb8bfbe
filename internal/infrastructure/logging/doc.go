// Package logging wraps uber/zap for domfind.
//
// Production mode writes JSON to stderr; development mode writes colored
// console lines. Finder sessions tag their logger with a session id and log
// each poll attempt at debug level using the Lookup fields.
//
//	logger := logging.NewDefault()
//	logger.WithSession(id).Debug("Lookup attempt", logging.Lookup("find", "css", "#save")...)
package logging
