package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountType(t *testing.T) {
	cases := []struct {
		in      string
		want    AccountType
		wantErr bool
	}{
		{"Local", Local, false},
		{"local", Local, false},
		{" LDAP ", LDAP, false},
		{"ldap", LDAP, false},
		{"Локальная", Local, false},
		{"ЛОКАЛЬНАЯ", Local, false},
		{"kerberos", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAccountType(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAccountJSONShape(t *testing.T) {
	a := Account{
		Labels: []Label{{Text: "vip"}},
		Type:   LDAP,
		Login:  "bob",
	}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":[{"text":"vip"}],"type":"LDAP","login":"bob","password":null}`, string(b))
}

func TestCloneOwnsLabels(t *testing.T) {
	a := Account{Labels: []Label{{Text: "a"}}, Type: Local, Login: "x"}
	c := a.Clone()
	c.Labels[0].Text = "changed"
	assert.Equal(t, "a", a.Labels[0].Text)
}

func TestEqual(t *testing.T) {
	a := Account{Labels: []Label{{Text: "a"}}, Type: Local, Login: "x", Password: PasswordPtr("p")}
	assert.True(t, a.Equal(a.Clone()))

	b := a.Clone()
	b.Password = PasswordPtr("q")
	assert.False(t, a.Equal(b))

	b.Password = nil
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Labels = append(c.Labels, Label{Text: "b"})
	assert.False(t, a.Equal(c))
}
