package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestQuizAttemptRepoAppendOnly(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "attempts@example.com")
	course := testutil.SeedCourse(t, ctx, db, true)
	section := testutil.SeedSection(t, ctx, db, course.ID, 0)
	lesson := testutil.SeedLesson(t, ctx, db, section.ID, 0)
	quiz := testutil.SeedQuiz(t, ctx, db, lesson.ID, true, 70, 0, 1, 2, 3)
	other := testutil.SeedQuiz(t, ctx, db, testutil.SeedLesson(t, ctx, db, section.ID, 1).ID, true, 70, 0)

	pass := &types.QuizAttempt{QuizID: quiz.ID, UserID: u.ID, Answers: datatypes.JSONSlice[int]{0, 1, 2, -1}, Correct: 3, Total: 4, Score: 75, Passed: true}
	if _, err := repo.Create(dbc, pass); err != nil {
		t.Fatalf("Create pass: %v", err)
	}

	// Reusing the same struct must still append.
	fail := *pass
	fail.Answers = datatypes.JSONSlice[int]{-1, -1, -1, -1}
	fail.Correct, fail.Score, fail.Passed = 0, 0, false
	if _, err := repo.Create(dbc, &fail); err != nil {
		t.Fatalf("Create fail: %v", err)
	}
	if fail.ID == pass.ID {
		t.Fatalf("attempts share an id: %s", fail.ID)
	}

	rows, err := repo.ListByUserAndQuiz(dbc, u.ID, quiz.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserAndQuiz: err=%v len=%d", err, len(rows))
	}

	passed, err := repo.HasPassed(dbc, u.ID, quiz.ID)
	if err != nil || !passed {
		t.Fatalf("HasPassed after later failure: want=true got=%v err=%v", passed, err)
	}

	ids, err := repo.PassedQuizIDs(dbc, u.ID, []uuid.UUID{quiz.ID, other.ID})
	if err != nil {
		t.Fatalf("PassedQuizIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != quiz.ID {
		t.Fatalf("PassedQuizIDs: want=[%s] got=%v", quiz.ID, ids)
	}
}
