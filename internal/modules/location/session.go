// README: Quoting-session stop registry with per-field request tokens.
package location

import "sync"

// Session holds the stops of one quoting session keyed by field name
// ("origin", "destination", "stop:0", ...). Each field carries a
// monotonically increasing request token: a resolution whose token has been
// superseded commits nothing. Last request wins, not last response.
type Session struct {
	mu     sync.Mutex
	fields map[string]*field
}

type field struct {
	token uint64
	stop  Stop
}

func NewSession() *Session {
	return &Session{fields: make(map[string]*field)}
}

// Stop returns a snapshot of the named field's stop.
func (s *Session) Stop(name string) (Stop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[name]
	if !ok {
		return Stop{}, false
	}
	return f.stop, true
}

// EditText records new display text for a field, creating it if needed.
// The token is advanced so any in-flight resolution for the previous text
// is discarded at commit time.
func (s *Session) EditText(name, text string) Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.ensure(name)
	f.token++
	f.stop.EditText(text)
	return f.stop
}

// SetResolved installs an externally obtained location (map click/drag),
// bypassing text resolution. The token advances so older requests cannot
// overwrite it.
func (s *Session) SetResolved(name string, loc Location) Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.ensure(name)
	f.token++
	f.stop = ResolvedStop(loc)
	return f.stop
}

// begin marks the field pending and returns the token the caller must
// present at commit time.
func (s *Session) begin(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.ensure(name)
	f.token++
	f.stop.beginResolve()
	return f.token
}

// commit installs a resolution if, and only if, token is still the latest
// for the field. A stale commit is dropped silently and reports false.
func (s *Session) commit(name string, token uint64, loc Location) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[name]
	if !ok || f.token != token {
		return false
	}
	f.stop.completeResolve(loc)
	return true
}

// commitText is commit for reverse flows, where the resolved display text
// is produced by the resolution itself.
func (s *Session) commitText(name string, token uint64, loc Location, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[name]
	if !ok || f.token != token {
		return false
	}
	f.stop.Text = text
	f.stop.completeResolve(loc)
	return true
}

// fail records a resolution failure under the same staleness rule.
func (s *Session) fail(name string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[name]
	if !ok || f.token != token {
		return false
	}
	f.stop.failResolve()
	return true
}

func (s *Session) ensure(name string) *field {
	f, ok := s.fields[name]
	if !ok {
		f = &field{stop: NewStop("")}
		s.fields[name] = f
	}
	return f
}
