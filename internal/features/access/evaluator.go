package access

// Evaluator is the read-only view of a session handed to screens.
type Evaluator interface {
	HasPermission(module Module, required Level) bool
	IsModuleBlocked(module Module) bool
}

var _ Evaluator = (*Session)(nil)

// HasPermission fails closed for modules without an entry. Any level other
// than ReadAndWrite is treated as ReadOnly, which write access satisfies.
func (s *Session) HasPermission(module Module, required Level) bool {
	if s == nil {
		return false
	}
	p, ok := s.Permissions[module]
	if !ok {
		return false
	}
	if required == ReadAndWrite {
		return p.ReadAndWrite
	}
	return p.ReadOnly || p.ReadAndWrite
}

// IsModuleBlocked never blocks Dashboard. With a populated blocked map,
// modules outside it are unblocked; without one, everything is blocked.
func (s *Session) IsModuleBlocked(module Module) bool {
	if module == Dashboard {
		return false
	}
	if s == nil || s.BlockedModules == nil {
		return true
	}
	return s.BlockedModules[module]
}
