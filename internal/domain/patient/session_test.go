package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuro/agenda/internal/platform/kvstore"
)

func TestSessions_SelectAndClear(t *testing.T) {
	sessions := NewSessions(nil, time.Hour)

	sess := sessions.Select("a", 7)
	require.NotNil(t, sess.CurrentPatientID)
	assert.Equal(t, 7, *sess.CurrentPatientID)

	other := sessions.Get("b")
	assert.Nil(t, other.CurrentPatientID)

	sess = sessions.ClearSelection("a")
	assert.Nil(t, sess.CurrentPatientID)
	assert.Equal(t, 2, sessions.Len())
}

func TestSessions_ReturnedCopyIsDetached(t *testing.T) {
	sessions := NewSessions(nil, time.Hour)
	sess := sessions.Select("a", 1)
	*sess.CurrentPatientID = 99

	again := sessions.Get("a")
	assert.Equal(t, 1, *again.CurrentPatientID)
}

func TestSessions_SetDraftsOnlyTouchesGivenFields(t *testing.T) {
	sessions := NewSessions(nil, time.Hour)
	term, note := "maria", "rascunho"
	sessions.SetDrafts("a", Drafts{SearchTerm: &term, NoteDraft: &note})

	empty := ""
	sess := sessions.SetDrafts("a", Drafts{SearchTerm: &empty})
	assert.Equal(t, "", sess.SearchTerm)
	assert.Equal(t, "rascunho", sess.NoteDraft)
}

func TestSessions_DeleteClearsSelection(t *testing.T) {
	s, _ := openStore(t, kvstore.NewMemory(), DemoPatients())
	sessions := NewSessions(s, time.Hour)

	p, err := s.Get(1)
	require.NoError(t, err)
	sessions.Select("a", 1)
	sessions.OpenNotes("a", p)
	sessions.Select("b", 2)

	require.NoError(t, s.Delete(context.Background(), 1))

	a := sessions.Get("a")
	assert.Nil(t, a.CurrentPatientID)
	assert.Nil(t, a.NotesPatientID)
	assert.Equal(t, "", a.ConsultationDraft)

	b := sessions.Get("b")
	require.NotNil(t, b.CurrentPatientID)
	assert.Equal(t, 2, *b.CurrentPatientID)
}

func TestSessions_OpenNotesLoadsDraft(t *testing.T) {
	sessions := NewSessions(nil, time.Hour)
	sess := sessions.OpenNotes("a", DemoPatients()[0])

	require.NotNil(t, sess.NotesPatientID)
	assert.Equal(t, 1, *sess.NotesPatientID)
	assert.Equal(t, DemoPatients()[0].ConsultationNotes, sess.ConsultationDraft)
}

func TestSessions_Prune(t *testing.T) {
	sessions := NewSessions(nil, time.Minute)
	start := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return start }
	sessions.Get("old")
	sessions.now = func() time.Time { return start.Add(5 * time.Minute) }
	sessions.Get("fresh")

	removed := sessions.Prune(start.Add(5*time.Minute + 30*time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessions_PruneDisabled(t *testing.T) {
	sessions := NewSessions(nil, 0)
	sessions.Get("a")
	assert.Equal(t, 0, sessions.Prune(time.Now().Add(24*time.Hour)))
}

func TestSessions_CapEvictsLeastRecentlySeen(t *testing.T) {
	sessions := NewSessions(nil, time.Hour)
	sessions.max = 2
	clock := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	sessions.Select("keep", 5)
	sessions.Get("drop")
	sessions.Get("keep")
	sessions.Get("other")
	assert.Equal(t, 2, sessions.Len())

	kept := sessions.Get("keep")
	require.NotNil(t, kept.CurrentPatientID)
	assert.Equal(t, 5, *kept.CurrentPatientID)

	for i := 0; i < 50; i++ {
		sessions.Get(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, 2, sessions.Len())
}
