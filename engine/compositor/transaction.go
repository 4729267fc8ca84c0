package compositor

import "time"

// completionGroup counts the animations added while a transaction was open. Its callback runs once
// the transaction has committed and every counted animation has stopped.
type completionGroup struct {
	pending    int
	committed  bool
	fired      bool
	completion func()
}

func (g *completionGroup) add() {
	g.pending++
}

func (g *completionGroup) done() {
	if g.pending > 0 {
		g.pending--
	}
	g.maybeFire()
}

func (g *completionGroup) commit() {
	g.committed = true
	g.maybeFire()
}

func (g *completionGroup) maybeFire() {
	if !g.committed || g.pending > 0 || g.fired {
		return
	}
	g.fired = true
	if g.completion != nil {
		g.completion()
	}
}

// transaction holds the settings of one Begin/Commit scope. Unset fields fall through to the
// enclosing transaction.
type transaction struct {
	implicit bool

	duration    *time.Duration
	timing      *TimingFunction
	noActions   *bool
	group       *completionGroup
	uncommitted []*animationEntry
}

func newTransaction(implicit bool) *transaction {
	return &transaction{
		implicit: implicit,
		group:    &completionGroup{},
	}
}
