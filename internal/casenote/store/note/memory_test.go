package note

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"casenotes/internal/casenote/models"
	"casenotes/pkg/platform/sentinel"
)

type InMemoryNoteStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *InMemoryNoteStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryNoteStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestInMemoryNoteStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryNoteStoreSuite))
}

func (s *InMemoryNoteStoreSuite) newNote(subjectID string, modifiedAt time.Time) *models.CaseNote {
	note, err := models.NewCaseNote(models.NewCaseNoteParams{
		SubjectID:      subjectID,
		LocationID:     "LEI",
		AuthorUsername: "jsmith",
		AuthorUserID:   "user-1",
		AuthorName:     "J Smith",
		ParentType:     "POM",
		SubType:        "GEN",
		NoteText:       "Initial contact recorded.",
		CreateUserID:   "user-1",
	}, modifiedAt)
	s.Require().NoError(err)
	return note
}

func (s *InMemoryNoteStoreSuite) create(subjectID string, modifiedAt time.Time) *models.CaseNote {
	note := s.newNote(subjectID, modifiedAt)
	s.Require().NoError(s.store.Create(s.ctx, note))
	return note
}

func (s *InMemoryNoteStoreSuite) TestCreate() {
	s.Run("assigns descending negative event ids", func() {
		first := s.create("A1234BC", s.now)
		second := s.create("A1234BC", s.now)

		s.Negative(first.EventID)
		s.Negative(second.EventID)
		s.Less(second.EventID, first.EventID)
	})

	s.Run("rejects a duplicate note id", func() {
		note := s.create("A1234BC", s.now)
		err := s.store.Create(s.ctx, note)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("stores a copy insulated from caller mutation", func() {
		note := s.create("A1234BC", s.now)
		note.NoteText = "mutated after create"

		got, err := s.store.FindByID(s.ctx, note.ID)
		s.Require().NoError(err)
		s.Equal("Initial contact recorded.", got.NoteText)
	})
}

func (s *InMemoryNoteStoreSuite) TestFindByID() {
	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("soft-deleted note is indistinguishable from missing", func() {
		note := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, note.ID, true))

		_, err := s.store.FindByID(s.ctx, note.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryNoteStoreSuite) TestFindAll() {
	s.Run("sorts by modification time in both directions", func() {
		older := s.create("A1234BC", s.now)
		newer := s.create("A1234BC", s.now.Add(time.Hour))

		asc, err := s.store.FindAll(s.ctx, models.Filter{}.Normalize())
		s.Require().NoError(err)
		s.Require().Len(asc, 2)
		s.Equal(older.ID, asc[0].ID)
		s.Equal(newer.ID, asc[1].ID)

		desc, err := s.store.FindAll(s.ctx, models.Filter{Sort: models.SortDescending}.Normalize())
		s.Require().NoError(err)
		s.Require().Len(desc, 2)
		s.Equal(newer.ID, desc[0].ID)
	})

	s.Run("applies limit and offset", func() {
		for i := 0; i < 5; i++ {
			s.create("A1234BC", s.now.Add(time.Duration(i)*time.Minute))
		}

		page, err := s.store.FindAll(s.ctx, models.Filter{
			Page: models.Page{Limit: 2, Offset: 2},
		}.Normalize())
		s.Require().NoError(err)
		s.Require().Len(page, 2)
		s.True(page[0].ModifiedAt.Equal(s.now.Add(2 * time.Minute)))

		beyond, err := s.store.FindAll(s.ctx, models.Filter{
			Page: models.Page{Limit: 2, Offset: 10},
		}.Normalize())
		s.Require().NoError(err)
		s.Empty(beyond)
	})
}

func (s *InMemoryNoteStoreSuite) TestFindModifiedSince() {
	s.Run("applies the strict bound and parent type set", func() {
		s.create("A1234BC", s.now)
		after := s.create("A1234BC", s.now.Add(time.Minute))

		got, err := s.store.FindModifiedSince(s.ctx, []string{"POM", "OBS"}, s.now, models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(after.ID, got[0].ID)

		none, err := s.store.FindModifiedSince(s.ctx, []string{"KA"}, s.now, models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Empty(none)
	})

	s.Run("applies an offset without a limit", func() {
		s.create("A1234BC", s.now.Add(time.Minute))
		s.create("A1234BC", s.now.Add(2*time.Minute))

		got, err := s.store.FindModifiedSince(s.ctx, []string{"POM"}, s.now, models.Page{Offset: 1})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.True(got[0].ModifiedAt.Equal(s.now.Add(2 * time.Minute)))
	})

	s.Run("a backdated modification time drops a note from the window", func() {
		note := s.create("A1234BC", s.now.Add(-time.Hour))

		got, err := s.store.FindModifiedSince(s.ctx, []string{"POM"}, s.now, models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Empty(got)

		_, err = s.store.FindByID(s.ctx, note.ID)
		s.Require().NoError(err)
	})
}

func (s *InMemoryNoteStoreSuite) TestAppendAmendment() {
	s.Run("assigns sequences per note and advances the parent", func() {
		note := s.create("A1234BC", s.now)

		for i, text := range []string{"first", "second"} {
			amendment := &models.Amendment{
				ID:        uuid.New(),
				NoteText:  text,
				CreatedAt: s.now.Add(time.Duration(i+1) * time.Minute),
			}
			s.Require().NoError(s.store.AppendAmendment(s.ctx, note.ID, amendment))
			s.Equal(i+1, amendment.Sequence)
		}

		got, err := s.store.FindByID(s.ctx, note.ID)
		s.Require().NoError(err)
		s.Require().Len(got.Amendments, 2)
		s.True(got.ModifiedAt.Equal(s.now.Add(2 * time.Minute)))
	})

	s.Run("keeps a backdated append in canonical order", func() {
		note := s.create("A1234BC", s.now)

		later := &models.Amendment{ID: uuid.New(), NoteText: "later", CreatedAt: s.now.Add(time.Hour)}
		s.Require().NoError(s.store.AppendAmendment(s.ctx, note.ID, later))

		earlier := &models.Amendment{ID: uuid.New(), NoteText: "earlier", CreatedAt: s.now.Add(time.Minute)}
		s.Require().NoError(s.store.AppendAmendment(s.ctx, note.ID, earlier))

		got, err := s.store.FindByID(s.ctx, note.ID)
		s.Require().NoError(err)
		s.Require().Len(got.Amendments, 2)
		s.Equal("earlier", got.FirstAmendment().NoteText)
		s.Equal("later", got.LastAmendment().NoteText)
	})

	s.Run("rejects appending to a soft-deleted note", func() {
		note := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, note.ID, true))

		err := s.store.AppendAmendment(s.ctx, note.ID, &models.Amendment{ID: uuid.New(), NoteText: "late", CreatedAt: s.now})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryNoteStoreSuite) TestSetSoftDeleted() {
	s.Run("flipping to the current state reports not found", func() {
		note := s.create("A1234BC", s.now)

		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, note.ID, true))
		s.ErrorIs(s.store.SetSoftDeleted(s.ctx, note.ID, true), sentinel.ErrNotFound)

		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, note.ID, false))
		s.ErrorIs(s.store.SetSoftDeleted(s.ctx, note.ID, false), sentinel.ErrNotFound)
	})
}

func (s *InMemoryNoteStoreSuite) TestBulkOperations() {
	s.Run("merge rewrites every matching note including soft-deleted", func() {
		kept := s.create("A1234BC", s.now)
		hidden := s.create("A1234BC", s.now)
		other := s.create("Z9876YX", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, hidden.ID, true))

		affected, err := s.store.UpdateSubjectID(s.ctx, "A1234BC", "B2345CD")
		s.Require().NoError(err)
		s.Equal(int64(2), affected)

		for _, noteID := range []uuid.UUID{kept.ID, hidden.ID} {
			raw, err := s.store.RawByID(s.ctx, noteID)
			s.Require().NoError(err)
			s.Equal("B2345CD", raw.SubjectID)
		}
		raw, err := s.store.RawByID(s.ctx, other.ID)
		s.Require().NoError(err)
		s.Equal("Z9876YX", raw.SubjectID)
	})

	s.Run("purge deletes amendments first then notes", func() {
		note := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.AppendAmendment(s.ctx, note.ID, &models.Amendment{
			ID:        uuid.New(),
			NoteText:  "update",
			CreatedAt: s.now,
		}))

		amendments, err := s.store.DeleteAmendmentsBySubjectID(s.ctx, "A1234BC")
		s.Require().NoError(err)
		s.Equal(int64(1), amendments)

		notes, err := s.store.DeleteNotesBySubjectID(s.ctx, "A1234BC")
		s.Require().NoError(err)
		s.Equal(int64(1), notes)

		_, err = s.store.RawByID(s.ctx, note.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("deleting notes with amendments still attached conflicts", func() {
		note := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.AppendAmendment(s.ctx, note.ID, &models.Amendment{
			ID:        uuid.New(),
			NoteText:  "update",
			CreatedAt: s.now,
		}))

		_, err := s.store.DeleteNotesBySubjectID(s.ctx, "A1234BC")
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}
