package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// CourseCache serves full course trees. Callers must treat the returned tree as
// read-only; it may be shared with other requests.
type CourseCache interface {
	// Get returns (nil, nil) when the course does not exist.
	Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	Invalidate(ctx context.Context, courseID uuid.UUID)
}

type courseCache struct {
	log     *logger.Logger
	courses repos.CourseRepo
	rdb     goredis.UniversalClient
	ttl     time.Duration
	group   singleflight.Group

	mu    sync.RWMutex
	local map[uuid.UUID]localEntry
	// gen is bumped by Invalidate; a load only stores if it is unchanged.
	gen map[uuid.UUID]uint64
}

type localEntry struct {
	course  *types.Course
	expires time.Time
}

// NewCourseCache stores trees in redis when rdb is set and in process otherwise.
// A ttl <= 0 disables caching.
func NewCourseCache(log *logger.Logger, courses repos.CourseRepo, rdb goredis.UniversalClient, ttl time.Duration) CourseCache {
	return &courseCache{
		log:     log.With("service", "CourseCache"),
		courses: courses,
		rdb:     rdb,
		ttl:     ttl,
		local:   map[uuid.UUID]localEntry{},
		gen:     map[uuid.UUID]uint64{},
	}
}

func courseKey(id uuid.UUID) string { return "course:tree:" + id.String() }

func (c *courseCache) Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	if courseID == uuid.Nil {
		return nil, nil
	}
	if c.ttl <= 0 {
		return c.load(ctx, courseID)
	}
	if hit, ok := c.lookup(ctx, courseID); ok {
		return hit, nil
	}

	v, err, _ := c.group.Do(courseID.String(), func() (interface{}, error) {
		gen := c.generation(courseID)
		course, err := c.load(ctx, courseID)
		if err != nil || course == nil {
			return course, err
		}
		c.store(ctx, course, gen)
		return course, nil
	})
	if err != nil {
		return nil, err
	}
	course, _ := v.(*types.Course)
	return course, nil
}

func (c *courseCache) Invalidate(ctx context.Context, courseID uuid.UUID) {
	c.mu.Lock()
	delete(c.local, courseID)
	c.gen[courseID]++
	c.mu.Unlock()
	c.group.Forget(courseID.String())
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(context.WithoutCancel(ctx), courseKey(courseID)).Err(); err != nil {
		c.log.Warn("course cache invalidate failed", "course_id", courseID, "error", err)
	}
}

func (c *courseCache) generation(courseID uuid.UUID) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen[courseID]
}

func (c *courseCache) load(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := c.courses.GetTree(dbctx.New(ctx), courseID)
	if err != nil {
		return nil, fmt.Errorf("load course tree: %w", err)
	}
	return course, nil
}

func (c *courseCache) lookup(ctx context.Context, courseID uuid.UUID) (*types.Course, bool) {
	if c.rdb == nil {
		c.mu.RLock()
		e, ok := c.local[courseID]
		c.mu.RUnlock()
		if !ok || time.Now().After(e.expires) {
			return nil, false
		}
		return e.course, true
	}

	raw, err := c.rdb.Get(ctx, courseKey(courseID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("course cache read failed", "course_id", courseID, "error", err)
		}
		return nil, false
	}
	var course types.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		c.log.Warn("course cache decode failed", "course_id", courseID, "error", err)
		return nil, false
	}
	return &course, true
}

// store skips the write when the course was invalidated after gen was read.
func (c *courseCache) store(ctx context.Context, course *types.Course, gen uint64) {
	if c.rdb == nil {
		c.mu.Lock()
		if c.gen[course.ID] == gen {
			c.local[course.ID] = localEntry{course: course, expires: time.Now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return
	}
	if c.generation(course.ID) != gen {
		return
	}
	raw, err := json.Marshal(course)
	if err != nil {
		c.log.Warn("course cache encode failed", "course_id", course.ID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, courseKey(course.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("course cache write failed", "course_id", course.ID, "error", err)
	}
}
