package engine

import (
	"errors"
	"testing"

	"github.com/minaorangina/davinci/game"
	utils "github.com/minaorangina/davinci/internal"
	"github.com/minaorangina/davinci/protocol"
	"github.com/minaorangina/davinci/transport"
	"github.com/stretchr/testify/require"
)

func registryOf(t *testing.T, names ...string) (*Registry, map[string]*transport.FakeConn) {
	t.Helper()

	r := NewRegistry()
	conns := map[string]*transport.FakeConn{}
	for _, name := range names {
		conns[name] = transport.NewFakeConn(name)
		_, err := r.Add(name, conns[name])
		require.NoError(t, err)
	}
	return r, conns
}

func TestRegistryAdd(t *testing.T) {
	r, _ := registryOf(t, "ann", "bob")

	_, err := r.Add("ann", transport.NewFakeConn("again"))
	utils.AssertErrorIs(t, err, game.ErrDuplicateName)
	utils.AssertDeepEqual(t, r.Names(), []string{"ann", "bob"})

	ann, ok := r.Lookup("ann")
	require.True(t, ok)
	bob, _ := r.Lookup("bob")
	utils.AssertTrue(t, ann.ID != "" && ann.ID != bob.ID)
}

func TestRegistryNext(t *testing.T) {
	everyone := func(string) bool { return true }

	t.Run("follows seat order and wraps", func(t *testing.T) {
		r, _ := registryOf(t, "ann", "bob", "cat")

		next, ok := r.Next("ann", everyone)
		utils.AssertTrue(t, ok)
		utils.AssertEqual(t, next, "bob")

		next, _ = r.Next("cat", everyone)
		utils.AssertEqual(t, next, "ann")
	})

	t.Run("skips disconnected and inactive seats", func(t *testing.T) {
		r, conns := registryOf(t, "ann", "bob", "cat", "dan")
		r.Drop("bob")
		utils.AssertTrue(t, conns["bob"].Closed())

		next, _ := r.Next("ann", func(name string) bool { return name != "cat" })
		utils.AssertEqual(t, next, "dan")
	})

	t.Run("nobody left", func(t *testing.T) {
		r, _ := registryOf(t, "ann", "bob")
		r.Drop("bob")

		_, ok := r.Next("ann", everyone)
		utils.AssertTrue(t, !ok)
	})

	t.Run("the current seat may already be gone", func(t *testing.T) {
		r, _ := registryOf(t, "ann", "bob", "cat")
		r.Drop("bob")

		next, _ := r.Next("bob", everyone)
		utils.AssertEqual(t, next, "cat")
	})
}

func TestRegistrySend(t *testing.T) {
	r, conns := registryOf(t, "ann", "bob", "cat")
	conns["cat"].FailSends(errors.New("broken pipe"))

	failed := r.Broadcast(protocol.NewTurn(), "ann")
	utils.AssertDeepEqual(t, failed, []string{"cat"})
	utils.AssertEqual(t, len(conns["ann"].Sent()), 0)
	utils.AssertEqual(t, len(conns["bob"].Sent()), 1)

	r.Drop("bob")
	utils.AssertErrorIs(t, r.Send("bob", protocol.NewTurn()), transport.ErrTransport)
	utils.AssertErrorIs(t, r.Send("nobody", protocol.NewTurn()), transport.ErrTransport)

	r.CloseAll()
	for _, c := range conns {
		utils.AssertTrue(t, c.Closed())
	}
	utils.AssertTrue(t, !r.Connected("ann"))
}
