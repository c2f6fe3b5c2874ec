package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestLessonProgressRepoUpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewLessonProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "progress@example.com")
	course := testutil.SeedCourse(t, ctx, db, true)
	section := testutil.SeedSection(t, ctx, db, course.ID, 0)
	lesson := testutil.SeedLesson(t, ctx, db, section.ID, 0)

	now := time.Now()
	first, err := repo.Upsert(dbc, u.ID, lesson.ID, true, now)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !first.Completed || first.CompletedAt == nil {
		t.Fatalf("Upsert: want completed with timestamp, got %+v", first)
	}
	if _, err := repo.Upsert(dbc, u.ID, lesson.ID, true, now.Add(time.Minute)); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	var count int64
	if err := db.Model(&types.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", u.ID, lesson.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows: want=1 got=%d", count)
	}

	undone, err := repo.Upsert(dbc, u.ID, lesson.ID, false, now)
	if err != nil {
		t.Fatalf("Upsert false: %v", err)
	}
	if undone.Completed || undone.CompletedAt != nil {
		t.Fatalf("Upsert false: want cleared row, got %+v", undone)
	}
	if undone.ID != first.ID {
		t.Fatalf("row id changed: want=%s got=%s", first.ID, undone.ID)
	}
}

func TestLessonProgressRepoCompletedMap(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewLessonProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "map@example.com")
	course := testutil.SeedCourse(t, ctx, db, true)
	section := testutil.SeedSection(t, ctx, db, course.ID, 0)
	l1 := testutil.SeedLesson(t, ctx, db, section.ID, 0)
	l2 := testutil.SeedLesson(t, ctx, db, section.ID, 1)

	if _, err := repo.Upsert(dbc, u.ID, l1.ID, true, time.Now()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.CompletedMap(dbc, u.ID, []uuid.UUID{l1.ID, l2.ID})
	if err != nil {
		t.Fatalf("CompletedMap: %v", err)
	}
	if !got[l1.ID] {
		t.Fatalf("CompletedMap: want l1 completed, got %v", got)
	}
	if _, ok := got[l2.ID]; ok {
		t.Fatalf("CompletedMap: l2 should be absent, got %v", got)
	}
	if empty, err := repo.CompletedMap(dbc, u.ID, nil); err != nil || len(empty) != 0 {
		t.Fatalf("CompletedMap(nil): err=%v len=%d", err, len(empty))
	}
}
