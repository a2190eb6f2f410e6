//go:build integration

package note

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"casenotes/internal/casenote/models"
	"casenotes/pkg/platform/sentinel"
	txcontext "casenotes/pkg/platform/tx"
	"casenotes/pkg/testutil/containers"
)

type PostgresNoteStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
	now   time.Time
}

func (s *PostgresNoteStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresNoteStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "case_note"))
}

func (s *PostgresNoteStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestPostgresNoteStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresNoteStoreSuite))
}

func (s *PostgresNoteStoreSuite) create(subjectID string, modifiedAt time.Time) *models.CaseNote {
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
	s.Require().NoError(s.store.Create(s.ctx, note))
	return note
}

func (s *PostgresNoteStoreSuite) amend(noteID uuid.UUID, text string, at time.Time) *models.Amendment {
	amendment := &models.Amendment{
		ID:             uuid.New(),
		NoteText:       text,
		AuthorUsername: "jsmith",
		AuthorUserID:   "user-1",
		AuthorName:     "J Smith",
		CreatedAt:      at,
	}
	s.Require().NoError(s.store.AppendAmendment(s.ctx, noteID, amendment))
	return amendment
}

func (s *PostgresNoteStoreSuite) TestCreateAndFindByID() {
	s.Run("round-trips the full note", func() {
		created := s.create("A1234BC", s.now)

		got, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
		s.Equal("A1234BC", got.SubjectID)
		s.Equal("Initial contact recorded.", got.NoteText)
		s.Equal(created.EventID, got.EventID)
		s.Empty(got.Amendments)
	})

	s.Run("sequence allocation yields distinct negative event ids", func() {
		first := s.create("A1234BC", s.now)
		second := s.create("A1234BC", s.now)

		s.Negative(first.EventID)
		s.Negative(second.EventID)
		s.NotEqual(first.EventID, second.EventID)
	})

	s.Run("duplicate note id conflicts", func() {
		created := s.create("A1234BC", s.now)
		err := s.store.Create(s.ctx, created)
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *PostgresNoteStoreSuite) TestAmendments() {
	s.Run("loads amendments in created-at then sequence order", func() {
		created := s.create("A1234BC", s.now)
		s.amend(created.ID, "tie one", s.now.Add(time.Minute))
		s.amend(created.ID, "tie two", s.now.Add(time.Minute))
		s.amend(created.ID, "latest", s.now.Add(2*time.Minute))

		got, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Require().Len(got.Amendments, 3)
		s.Equal("tie one", got.FirstAmendment().NoteText)
		s.Equal("latest", got.LastAmendment().NoteText)
		s.Equal([]int{1, 2, 3}, []int{
			got.Amendments[0].Sequence,
			got.Amendments[1].Sequence,
			got.Amendments[2].Sequence,
		})
	})

	s.Run("append advances the parent modification time", func() {
		created := s.create("A1234BC", s.now)
		later := s.now.Add(time.Hour)
		s.amend(created.ID, "update", later)

		got, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.True(got.ModifiedAt.Equal(later))
	})

	s.Run("append to a soft-deleted note is not found", func() {
		created := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, created.ID, true))

		amendment := &models.Amendment{ID: uuid.New(), NoteText: "late", CreatedAt: s.now}
		err := s.store.AppendAmendment(s.ctx, created.ID, amendment)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresNoteStoreSuite) TestFindAll() {
	s.Run("compiles sparse criteria into predicates", func() {
		s.create("A1234BC", s.now)
		other := s.create("Z9876YX", s.now.Add(time.Minute))

		all, err := s.store.FindAll(s.ctx, models.Filter{}.Normalize())
		s.Require().NoError(err)
		s.Len(all, 2)

		matched, err := s.store.FindAll(s.ctx, models.Filter{SubjectID: "Z9876YX"}.Normalize())
		s.Require().NoError(err)
		s.Require().Len(matched, 1)
		s.Equal(other.ID, matched[0].ID)
	})

	s.Run("excludes soft-deleted notes", func() {
		created := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, created.ID, true))

		all, err := s.store.FindAll(s.ctx, models.Filter{}.Normalize())
		s.Require().NoError(err)
		s.Empty(all)
	})

	s.Run("pages in descending order", func() {
		for i := 0; i < 3; i++ {
			s.create("A1234BC", s.now.Add(time.Duration(i)*time.Minute))
		}

		page, err := s.store.FindAll(s.ctx, models.Filter{
			Sort: models.SortDescending,
			Page: models.Page{Limit: 1, Offset: 1},
		}.Normalize())
		s.Require().NoError(err)
		s.Require().Len(page, 1)
		s.True(page[0].ModifiedAt.Equal(s.now.Add(time.Minute)))
	})
}

func (s *PostgresNoteStoreSuite) TestFindModifiedSince() {
	s.create("A1234BC", s.now)
	after := s.create("A1234BC", s.now.Add(time.Minute))

	got, err := s.store.FindModifiedSince(s.ctx, []string{"POM", "OBS"}, s.now, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(after.ID, got[0].ID)

	none, err := s.store.FindModifiedSince(s.ctx, []string{"KA"}, s.now, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Empty(none)

	skipped, err := s.store.FindModifiedSince(s.ctx, []string{"POM", "OBS"}, s.now, models.Page{Offset: 1})
	s.Require().NoError(err)
	s.Empty(skipped)
}

func (s *PostgresNoteStoreSuite) TestBulkOperations() {
	s.Run("merge rewrites soft-deleted notes too", func() {
		kept := s.create("A1234BC", s.now)
		hidden := s.create("A1234BC", s.now)
		s.Require().NoError(s.store.SetSoftDeleted(s.ctx, hidden.ID, true))

		affected, err := s.store.UpdateSubjectID(s.ctx, "A1234BC", "B2345CD")
		s.Require().NoError(err)
		s.Equal(int64(2), affected)

		for _, noteID := range []uuid.UUID{kept.ID, hidden.ID} {
			raw, err := s.store.RawByID(s.ctx, noteID)
			s.Require().NoError(err)
			s.Equal("B2345CD", raw.SubjectID)
		}
	})

	s.Run("purge runs amendment delete then note delete in one transaction", func() {
		created := s.create("A1234BC", s.now)
		s.amend(created.ID, "update", s.now.Add(time.Minute))

		tx, err := s.pg.DB.BeginTxx(s.ctx, nil)
		s.Require().NoError(err)
		txCtx := txcontext.WithTx(s.ctx, tx)

		amendments, err := s.store.DeleteAmendmentsBySubjectID(txCtx, "A1234BC")
		s.Require().NoError(err)
		s.Equal(int64(1), amendments)

		notes, err := s.store.DeleteNotesBySubjectID(txCtx, "A1234BC")
		s.Require().NoError(err)
		s.Equal(int64(1), notes)

		s.Require().NoError(tx.Commit())

		_, err = s.store.RawByID(s.ctx, created.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("note delete without amendment delete violates the foreign key", func() {
		created := s.create("A1234BC", s.now)
		s.amend(created.ID, "update", s.now.Add(time.Minute))

		_, err := s.store.DeleteNotesBySubjectID(s.ctx, "A1234BC")
		s.Require().Error(err)
	})
}

func (s *PostgresNoteStoreSuite) TestSetSoftDeleted() {
	created := s.create("A1234BC", s.now)

	s.Require().NoError(s.store.SetSoftDeleted(s.ctx, created.ID, true))
	s.ErrorIs(s.store.SetSoftDeleted(s.ctx, created.ID, true), sentinel.ErrNotFound)

	_, err := s.store.FindByID(s.ctx, created.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	raw, err := s.store.RawByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(raw.SoftDeleted)
}
