package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEntry_Unmarshal(t *testing.T) {
	var entries []LabelEntry
	require.NoError(t, json.Unmarshal([]byte(`["old", {"text": "new"}]`), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, LabelEntry{Kind: StringLabel, Text: "old"}, entries[0])
	assert.Equal(t, LabelEntry{Kind: StructuredLabel, Text: "new"}, entries[1])
}

func TestLabelEntry_UnmarshalRejectsOtherKinds(t *testing.T) {
	for _, in := range []string{`[1]`, `[true]`, `[["x"]]`, `[null]`} {
		var entries []LabelEntry
		assert.Error(t, json.Unmarshal([]byte(in), &entries), in)
	}
}

func TestLabelEntry_MarshalKeepsShape(t *testing.T) {
	b, err := json.Marshal([]LabelEntry{NewStringEntry("a"), NewStructuredEntry(Label{Text: "b"})})
	require.NoError(t, err)
	assert.JSONEq(t, `["a", {"text": "b"}]`, string(b))
}

func TestStoredAccount_Unmarshal(t *testing.T) {
	in := `{"labels": ["vip", {"text": "ops"}], "type": "Локальная", "login": "alice", "password": "x"}`
	var s StoredAccount
	require.NoError(t, json.Unmarshal([]byte(in), &s))

	assert.Equal(t, []LabelEntry{NewStringEntry("vip"), NewStructuredEntry(Label{Text: "ops"})}, s.Labels)
	assert.Equal(t, Local, s.Type)
	assert.Equal(t, "alice", s.Login)
	require.NotNil(t, s.Password)
	assert.Equal(t, "x", *s.Password)
}

func TestStoredAccount_NonArrayLabels(t *testing.T) {
	for _, labels := range []string{`null`, `"vip"`, `{"text": "vip"}`, `7`} {
		var s StoredAccount
		in := `{"labels": ` + labels + `, "type": "LDAP", "login": "bob", "password": null}`
		require.NoError(t, json.Unmarshal([]byte(in), &s), labels)
		assert.Empty(t, s.Labels, labels)
		assert.Nil(t, s.Password)
	}
}

func TestStoredAccount_MissingLabels(t *testing.T) {
	var s StoredAccount
	require.NoError(t, json.Unmarshal([]byte(`{"type": "LDAP", "login": "bob"}`), &s))
	assert.Empty(t, s.Labels)
}
