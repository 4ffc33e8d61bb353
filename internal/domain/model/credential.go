package model

import "crypto/subtle"

// Credential is a fixed username/password pair supplied through configuration.
// Passwords are compared as plaintext.
type Credential struct {
	Username string
	Password string
}

// Usable returns true when both username and password are non-empty. Credentials
// with an empty field never match a login attempt.
func (c Credential) Usable() bool {
	return c.Username != "" && c.Password != ""
}

// CredentialSet is the immutable set of accounts allowed to use the application.
// The zero value holds no credentials and matches nothing.
type CredentialSet struct {
	creds []Credential
}

// NewCredentialSet builds a CredentialSet from the given credentials, dropping
// any that are not usable.
func NewCredentialSet(creds ...Credential) CredentialSet {
	usable := make([]Credential, 0, len(creds))
	for _, c := range creds {
		if c.Usable() {
			usable = append(usable, c)
		}
	}
	return CredentialSet{creds: usable}
}

// Lookup reports whether username and password exactly match one configured
// credential. Every credential is compared so the work done does not depend on
// which account, if any, matched.
func (s CredentialSet) Lookup(username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	matched := 0
	for _, c := range s.creds {
		u := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username))
		p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
		matched |= u & p
	}
	return matched == 1
}

// AllowedUsernames returns the set of usernames that may hold a token.
func (s CredentialSet) AllowedUsernames() map[string]struct{} {
	allowed := make(map[string]struct{}, len(s.creds))
	for _, c := range s.creds {
		allowed[c.Username] = struct{}{}
	}
	return allowed
}

// IsAllowed reports whether username belongs to a configured credential.
func (s CredentialSet) IsAllowed(username string) bool {
	if username == "" {
		return false
	}
	_, ok := s.AllowedUsernames()[username]
	return ok
}

// Usernames returns the configured usernames in configuration order.
func (s CredentialSet) Usernames() []string {
	names := make([]string, 0, len(s.creds))
	for _, c := range s.creds {
		names = append(names, c.Username)
	}
	return names
}

// Len returns the number of usable credentials.
func (s CredentialSet) Len() int {
	return len(s.creds)
}
