package services

import (
	"testing"

	"postviewer/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeLabeledNode(t *testing.T) {
	t.Run("defaults to an empty paragraph", func(t *testing.T) {
		n := MakeLabeledNode("", "")
		assert.Equal(t, "p", n.Tag())
		assert.Equal(t, "", n.Text())
		_, hasClass := n.ClassName()
		assert.False(t, hasClass)
	})

	t.Run("omitted class leaves no class", func(t *testing.T) {
		n := MakeLabeledNode("h2", "Title")
		assert.Equal(t, "h2", n.Tag())
		assert.Equal(t, "Title", n.Text())
		_, hasClass := n.ClassName()
		assert.False(t, hasClass)
	})

	t.Run("empty class counts as omitted", func(t *testing.T) {
		n := MakeLabeledNode("p", "x", "")
		_, hasClass := n.ClassName()
		assert.False(t, hasClass)
	})

	t.Run("provided class is applied exactly", func(t *testing.T) {
		n := MakeLabeledNode("p", "hello", "default-text")
		name, hasClass := n.ClassName()
		assert.True(t, hasClass)
		assert.Equal(t, "default-text", name)
	})
}

func TestMakeOptionNodes(t *testing.T) {
	assert.Nil(t, MakeOptionNodes(nil))

	empty := MakeOptionNodes([]entities.User{})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	users := []entities.User{
		{ID: 1, Name: "Leanne Graham"},
		{ID: 2, Name: "Ervin Howell"},
		{ID: 10, Name: "Clementina DuBuque"},
	}
	options := MakeOptionNodes(users)
	require.Len(t, options, len(users))
	for i, o := range options {
		assert.Equal(t, "option", o.Tag())
		assert.Equal(t, users[i].Name, o.Text())
		assert.Equal(t, []string{"1", "2", "10"}[i], o.Attr("value"))
	}
}

func TestBuildCommentsFragment(t *testing.T) {
	assert.Nil(t, BuildCommentsFragment(nil))

	empty := BuildCommentsFragment([]entities.Comment{})
	require.NotNil(t, empty)
	assert.Equal(t, 0, empty.ChildCount())

	comments := []entities.Comment{
		{Name: "A", Body: "B", Email: "c@d.com"},
		{Name: "E", Body: "F", Email: "g@h.com"},
	}
	snapshot := append([]entities.Comment(nil), comments...)

	fragment := BuildCommentsFragment(comments)
	require.NotNil(t, fragment)
	assert.True(t, fragment.IsFragment())
	require.Equal(t, 2, fragment.ChildCount())

	first := fragment.Children()[0]
	assert.Equal(t, "article", first.Tag())
	kids := first.Children()
	require.Len(t, kids, 3)
	assert.Equal(t, "h3", kids[0].Tag())
	assert.Equal(t, "A", kids[0].Text())
	assert.Equal(t, "p", kids[1].Tag())
	assert.Equal(t, "B", kids[1].Text())
	assert.Equal(t, "p", kids[2].Tag())
	assert.Equal(t, "From: c@d.com", kids[2].Text())

	assert.Equal(t, "E", fragment.Children()[1].FirstChild().Text())
	assert.Equal(t, snapshot, comments)
}
