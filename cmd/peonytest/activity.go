package main

import (
	"fmt"
	"sync/atomic"

	"peonytest/internal/verify"
)

// activity remembers which command is running so heartbeat events can name
// it.
type activity struct {
	current atomic.Pointer[string]
}

func (a *activity) OnEvent(ev verify.Event) {
	switch ev.Phase {
	case verify.PhaseRunning, verify.PhaseChecking:
		s := fmt.Sprintf("cmd#%d %s", ev.Index, ev.Phase)
		a.current.Store(&s)
	case verify.PhaseDone:
		a.current.Store(nil)
	}
}

// String describes the current activity, or "" between commands.
func (a *activity) String() string {
	if s := a.current.Load(); s != nil {
		return *s
	}
	return ""
}
