package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryGetMissingReturnsEmptyObject(t *testing.T) {
	repo := NewInMemoryRepo()

	doc, err := repo.Get(context.Background(), "42")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(doc))
}

func TestInMemoryPutGetRoundTrip(t *testing.T) {
	repo := NewInMemoryRepo()
	saved := json.RawMessage(`{"moderation":{"antiSpam":true}}`)

	require.NoError(t, repo.Put(context.Background(), "42", saved))

	doc, err := repo.Get(context.Background(), "42")
	require.NoError(t, err)
	require.JSONEq(t, string(saved), string(doc))
}

func TestInMemoryPutReplacesWholeDocument(t *testing.T) {
	repo := NewInMemoryRepo()

	require.NoError(t, repo.Put(context.Background(), "42", json.RawMessage(`{"moderation":{"antiSpam":true},"prefix":"!"}`)))
	require.NoError(t, repo.Put(context.Background(), "42", json.RawMessage(`{"welcome":{"channel":"general"}}`)))

	doc, err := repo.Get(context.Background(), "42")
	require.NoError(t, err)
	// No merge: the first document's fields are gone.
	require.JSONEq(t, `{"welcome":{"channel":"general"}}`, string(doc))
}

func TestInMemoryGuildsAreIndependent(t *testing.T) {
	repo := NewInMemoryRepo()

	require.NoError(t, repo.Put(context.Background(), "42", json.RawMessage(`{"a":1}`)))

	doc, err := repo.Get(context.Background(), "43")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(doc))
}
