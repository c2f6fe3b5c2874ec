package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

// hookedCourses calls during after each tree read, before the load returns.
type hookedCourses struct {
	repos.CourseRepo
	loads  int
	during func()
}

func (h *hookedCourses) GetTree(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	h.loads++
	out, err := h.CourseRepo.GetTree(dbc, id)
	if h.during != nil {
		h.during()
	}
	return out, err
}

func TestCourseCache_LocalHitAndInvalidate(t *testing.T) {
	f := newFixture(t)
	cache := NewCourseCache(f.log, f.repos.Courses, nil, time.Minute)
	c := testutil.SeedCourse(t, f.ctx, f.db, true)

	first, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Empty(t, first.Sections)

	testutil.SeedSection(t, f.ctx, f.db, c.ID, 0)

	stale, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.Same(t, first, stale)

	cache.Invalidate(f.ctx, c.ID)
	fresh, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Sections, 1)
}

func TestCourseCache_Missing(t *testing.T) {
	f := newFixture(t)
	cache := NewCourseCache(f.log, f.repos.Courses, nil, time.Minute)
	got, err := cache.Get(f.ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCourseCache_InvalidateDuringLoadSkipsStore(t *testing.T) {
	f := newFixture(t)
	courses := &hookedCourses{CourseRepo: f.repos.Courses}
	cache := NewCourseCache(f.log, courses, nil, time.Minute)
	c := testutil.SeedCourse(t, f.ctx, f.db, true)

	// An edit lands while the pre-edit tree is still being read.
	courses.during = func() {
		courses.during = nil
		testutil.SeedSection(t, f.ctx, f.db, c.ID, 0)
		cache.Invalidate(f.ctx, c.ID)
	}
	stale, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, stale.Sections)

	fresh, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Sections, 1)
	require.Equal(t, 2, courses.loads)

	again, err := cache.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.Same(t, fresh, again)
	require.Equal(t, 2, courses.loads)
}
