package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoUsers() CredentialSet {
	return NewCredentialSet(
		Credential{Username: "u1", Password: "p1"},
		Credential{Username: "u2", Password: "p2"},
	)
}

func TestCredentialSet_Lookup(t *testing.T) {
	set := twoUsers()

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{name: "first account", username: "u1", password: "p1", want: true},
		{name: "second account", username: "u2", password: "p2", want: true},
		{name: "wrong password", username: "u1", password: "nope", want: false},
		{name: "crossed accounts", username: "u1", password: "p2", want: false},
		{name: "unknown user", username: "u3", password: "p1", want: false},
		{name: "case sensitive username", username: "U1", password: "p1", want: false},
		{name: "prefix of password", username: "u1", password: "p", want: false},
		{name: "empty username", username: "", password: "p1", want: false},
		{name: "empty password", username: "u1", password: "", want: false},
		{name: "both empty", username: "", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Lookup(tt.username, tt.password))
		})
	}
}

func TestCredentialSet_DropsUnusable(t *testing.T) {
	set := NewCredentialSet(
		Credential{Username: "u1", Password: "p1"},
		Credential{Username: "", Password: ""},
		Credential{Username: "u2", Password: ""},
	)

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"u1"}, set.Usernames())
	assert.False(t, set.Lookup("u2", ""), "credential with empty password must never match")
	assert.False(t, set.IsAllowed("u2"))
}

func TestCredentialSet_ZeroValue(t *testing.T) {
	var set CredentialSet

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Lookup("u1", "p1"))
	assert.False(t, set.IsAllowed("u1"))
	assert.Empty(t, set.AllowedUsernames())
}

func TestCredentialSet_AllowedUsernames(t *testing.T) {
	set := twoUsers()

	allowed := set.AllowedUsernames()
	assert.Len(t, allowed, 2)
	assert.Contains(t, allowed, "u1")
	assert.Contains(t, allowed, "u2")

	assert.True(t, set.IsAllowed("u1"))
	assert.True(t, set.IsAllowed("u2"))
	assert.False(t, set.IsAllowed("u3"))
	assert.False(t, set.IsAllowed(""))
}

func TestImage_Empty(t *testing.T) {
	var nilImage *Image
	assert.True(t, nilImage.Empty())
	assert.True(t, (&Image{Filename: "a.jpg"}).Empty())
	assert.False(t, (&Image{Data: []byte{0xff}}).Empty())
}
