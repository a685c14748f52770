package core

// engine.go — Engine wires a Ledger to a logger and exposes the
// program's operations as ordinary Go methods, the accounting-engine
// analogue of the teacher platform's node constructors (e.g.
// NewMiningNode, NewMobileNode) that bundle a ledger with a
// logrus.Logger.

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine is the storage/staking accounting program. One Engine per
// Ledger; concurrency safety is delegated to the Ledger's own mutex.
type Engine struct {
	ledger     *Ledger
	log        *logrus.Entry
	instanceID string
}

// NewEngine builds an Engine around an already-open Ledger. Passing a
// nil logger installs a logrus.New() default at warn level, matching
// the teacher's node constructors' fallback behaviour. instanceID tags
// every log line this Engine emits, the way the teacher's rental
// agreements tag each record with uuid.New() for correlation — here
// the identifier is for the log stream, not the deterministic account
// state, so it carries no state-affecting meaning.
func NewEngine(ledger *Ledger, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	id := uuid.NewString()
	return &Engine{ledger: ledger, log: log.WithField("engine", id), instanceID: id}
}

// Ledger exposes the underlying store, primarily for the CLI's
// snapshot/inspection commands.
func (e *Engine) Ledger() *Ledger { return e.ledger }
