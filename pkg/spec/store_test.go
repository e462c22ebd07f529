package spec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSpec() DocumentSpec {
	return DocumentSpec{
		Topic: "The number pi",
		Units: []UnitSpec{
			{
				ID:                     "ku1",
				Summary:                "Pi is the circumference-to-diameter ratio.",
				TextDescription:        "Explain the ratio definition of pi.",
				InteractionDescription: "A slider changes the radius and shows the ratio staying constant.",
			},
			{
				ID:                     "ku2",
				Summary:                "Pi is irrational.",
				TextDescription:        "Explain irrationality informally.",
				InteractionDescription: "Digits of pi stream in as the reader clicks.",
			},
		},
	}
}

func TestIDForTopic_Deterministic(t *testing.T) {
	a := IDForTopic("quantum tunneling")
	b := IDForTopic("quantum tunneling")
	c := IDForTopic("something else")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 36)
}

func TestStore_SaveGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	doc := sampleSpec()
	id := IDForTopic(doc.Topic)
	require.NoError(t, store.Save(id, doc))

	got, err := store.Get(id)
	require.NoError(t, err)
	require.Equal(t, doc, got)

	// Persisted to disk as well.
	_, err = os.Stat(filepath.Join(store.Dir(id), "spec.json"))
	require.NoError(t, err)
}

func TestStore_Get_NotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Update(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	doc := sampleSpec()
	id := IDForTopic(doc.Topic)
	require.NoError(t, store.Save(id, doc))

	doc.Units = doc.Units[:1]
	require.NoError(t, store.Update(id, doc))

	got, err := store.Get(id)
	require.NoError(t, err)
	require.Len(t, got.Units, 1)
}

func TestStore_Update_NotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Update("missing", sampleSpec())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	doc := sampleSpec()
	id := IDForTopic(doc.Topic)
	require.NoError(t, store.Save(id, doc))

	require.NoError(t, store.Delete(id))
	_, err = store.Get(id)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(store.Dir(id))
	require.True(t, os.IsNotExist(err))

	// Deleting again reports the missing id.
	require.ErrorIs(t, store.Delete(id), ErrNotFound)
}

func TestStore_Delete_UnknownID(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete("does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "does-not-exist", notFound.ID)
}

func TestStore_ReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	doc := sampleSpec()
	id := IDForTopic(doc.Topic)
	require.NoError(t, store.Save(id, doc))

	// Fresh store over the same directory sees the saved spec.
	reloaded, err := NewStore(dir)
	require.NoError(t, err)

	got, err := reloaded.Get(id)
	require.NoError(t, err)
	require.Equal(t, doc, got)

	metas := reloaded.List()
	require.Len(t, metas, 1)
	require.Equal(t, doc.Topic, metas[0].Topic)
}

func TestStore_SkipsMalformedSpecFiles(t *testing.T) {
	dir := t.TempDir()
	badDir := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "spec.json"), []byte("not json"), 0o644))

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.Empty(t, store.List())
}

func TestDocumentSpec_Validate(t *testing.T) {
	doc := sampleSpec()
	require.NoError(t, doc.Validate())

	empty := DocumentSpec{}
	require.Error(t, empty.Validate())

	noUnits := DocumentSpec{Topic: "x"}
	require.Error(t, noUnits.Validate())

	missingField := sampleSpec()
	missingField.Units[0].TextDescription = ""
	require.Error(t, missingField.Validate())
}

type fakeClient struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeClient) Generate(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestPlanner_Run(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"topic": "gravity",
		"knowledge_units": [
			{"id": "ku1", "unit_content": "s", "text_description": "t", "interaction_description": "i"}
		]
	}` + "\n```"}

	planner := NewPlanner(client, "test-model")
	doc, err := planner.Run(context.Background(), "gravity")
	require.NoError(t, err)
	require.Equal(t, "gravity", doc.Topic)
	require.Len(t, doc.Units, 1)
	require.Equal(t, 1, client.calls)
	require.Contains(t, client.prompts[0], "gravity")
}

func TestPlanner_Run_EmptyTopic(t *testing.T) {
	planner := NewPlanner(&fakeClient{}, "test-model")
	_, err := planner.Run(context.Background(), "   ")
	require.Error(t, err)
}

func TestPlanner_Run_BackendError(t *testing.T) {
	planner := NewPlanner(&fakeClient{err: errors.New("down")}, "test-model")
	_, err := planner.Run(context.Background(), "gravity")
	require.ErrorContains(t, err, "down")
}

func TestPlanner_Run_MalformedResponse(t *testing.T) {
	planner := NewPlanner(&fakeClient{response: "sorry, no"}, "test-model")
	_, err := planner.Run(context.Background(), "gravity")
	require.Error(t, err)
}

func TestPlanner_Run_InvalidSpec(t *testing.T) {
	planner := NewPlanner(&fakeClient{response: `{"topic": "gravity", "knowledge_units": []}`}, "test-model")
	_, err := planner.Run(context.Background(), "gravity")
	require.ErrorContains(t, err, "invalid spec")
}
