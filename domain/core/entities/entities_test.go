package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DecodesRemoteShape(t *testing.T) {
	payload := `{
		"id": 1,
		"name": "Leanne Graham",
		"username": "Bret",
		"address": {"city": "Gwenborough"},
		"company": {"name": "Romaguera-Crona", "catchPhrase": "Multi-layered client-server neural-net", "bs": "harness"}
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(payload), &u))

	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "Leanne Graham", u.Name)
	assert.Equal(t, "Romaguera-Crona", u.Company.Name)
	assert.Equal(t, "Multi-layered client-server neural-net", u.Company.CatchPhrase)
	assert.False(t, u.IsZero())
}

func TestUser_IsZero(t *testing.T) {
	assert.True(t, User{}.IsZero())
	assert.False(t, User{Name: "x"}.IsZero())
}

func TestPost_DecodesUserID(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"userId":1,"title":"t","body":"b"}`), &p))
	assert.Equal(t, Post{ID: 3, UserID: 1, Title: "t", Body: "b"}, p)
}
