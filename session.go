package main

import (
	"errors"
	"sync"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/engine"
)

var errNoSession = errors.New("no game initialized")

// session is the gate in front of the single active simulation. The
// engine itself has no locking, so every transport call goes through
// the session mutex, including the WebSocket stream.
type session struct {
	mu  sync.Mutex
	eng *engine.Engine
	res *assets.Resolution
}

// swap installs a freshly initialized game, replacing any previous one.
func (s *session) swap(eng *engine.Engine, res *assets.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng = eng
	s.res = res
}

// withEngine runs fn under the session lock. Returns errNoSession when
// no game has been initialized yet.
func (s *session) withEngine(fn func(*engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return errNoSession
	}
	return fn(s.eng)
}

// callsUsed reports how many generation calls the current game's
// provisioning spent, zero before any game exists.
func (s *session) callsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.res == nil {
		return 0
	}
	return s.res.CallsUsed
}
