// Package logging sets up the node's logrus logger and provides the
// sanitization helper spec.md §7 requires for anything that crosses from
// the ledger/validator into a client- or peer-visible surface: "errors
// are returned as values... user-visible messages never reveal internal
// balances, sequence numbers, or pool contents."
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nexaflow/nxfd/internal/config"
)

// New builds a logrus.Logger from a LoggingConfig: level and formatter
// only, writing to stderr so stdout stays free for any future
// machine-readable output.
func New(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

// Discard returns a logger that writes nowhere, for tests that want the
// real logging call sites exercised without polluting test output.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// SanitizeResultMessage returns the category-only message safe to return
// to a client or peer for a rejected transaction (spec.md §4.2: "Error
// messages MUST be sanitized before returning over the API (only the
// category may leak; not balances, sequences, or remaining amounts)").
// The internal, detailed message (from validator.ValidateStateless or
// ledger.CheckTransaction) is not part of the result, and the node does not
// log it; callers outside this package should never forward it as-is.
func SanitizeResultMessage(code fmtStringer) string {
	return code.String()
}

// fmtStringer is satisfied by tx.Result; declared locally to avoid an
// import cycle between logging and tx (tx has no reason to depend on
// logging).
type fmtStringer interface {
	String() string
}
