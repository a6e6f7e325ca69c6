package access

// Session is the authorization state of one console session.
// It is mutated only through Login and Logout.
type Session struct {
	IsLoggedIn     bool                   `json:"isLoggedIn" bson:"is_logged_in"`
	Role           *string                `json:"role" bson:"role"`
	Permissions    map[Module]Permissions `json:"permissions" bson:"permissions"`
	UserID         *string                `json:"userId" bson:"user_id"`
	BlockedModules map[Module]bool        `json:"blockedModules,omitempty" bson:"blocked_modules,omitempty"`
}

// NewSession returns an unauthenticated session. BlockedModules stays nil
// until the first login.
func NewSession() *Session {
	return &Session{Permissions: map[Module]Permissions{}}
}

// Login populates every field from the role payload. The payload is not
// validated; duplicate access entries resolve to the last one.
func (s *Session) Login(role Role) {
	permissions := make(map[Module]Permissions, len(role.Access))
	present := make(map[Module]struct{}, len(role.Access))
	for _, entry := range role.Access {
		permissions[entry.Module] = entry.Permissions
		present[entry.Module] = struct{}{}
	}

	blocked := make(map[Module]bool, len(BlockableModules))
	for _, m := range BlockableModules {
		_, ok := present[m]
		blocked[m] = !ok
	}

	name, id := role.Name, role.ID
	s.IsLoggedIn = true
	s.Role = &name
	s.Permissions = permissions
	s.UserID = &id
	s.BlockedModules = blocked
}

// Logout resets the identity fields. BlockedModules is kept from the last
// login.
func (s *Session) Logout() {
	s.IsLoggedIn = false
	s.Role = nil
	s.Permissions = map[Module]Permissions{}
	s.UserID = nil
}

// Clone returns a deep copy so a store can swap whole values.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := &Session{IsLoggedIn: s.IsLoggedIn}
	if s.Role != nil {
		role := *s.Role
		c.Role = &role
	}
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	if s.Permissions != nil {
		c.Permissions = make(map[Module]Permissions, len(s.Permissions))
		for k, v := range s.Permissions {
			c.Permissions[k] = v
		}
	}
	if s.BlockedModules != nil {
		c.BlockedModules = make(map[Module]bool, len(s.BlockedModules))
		for k, v := range s.BlockedModules {
			c.BlockedModules[k] = v
		}
	}
	return c
}

// RoleName returns the role or "" when logged out.
func (s *Session) RoleName() string {
	if s == nil || s.Role == nil {
		return ""
	}
	return *s.Role
}

// AdminID returns the user id or "" when logged out.
func (s *Session) AdminID() string {
	if s == nil || s.UserID == nil {
		return ""
	}
	return *s.UserID
}
