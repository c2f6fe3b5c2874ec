package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
)

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	log    *logger.Logger
	events *bus.MemoryBus
	repos  CatalogRepos
	ents   repos.EntitlementRepo
	orders repos.CheckoutOrderRepo
	users  repos.UserRepo
	cache  CourseCache
	access AccessService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		ctx:    context.Background(),
		db:     db,
		log:    log,
		events: bus.NewMemoryBus(true),
		repos: CatalogRepos{
			Courses:     repos.NewCourseRepo(db, log),
			Sections:    repos.NewSectionRepo(db, log),
			Lessons:     repos.NewLessonRepo(db, log),
			Attachments: repos.NewAttachmentRepo(db, log),
			Quizzes:     repos.NewQuizRepo(db, log),
			Questions:   repos.NewQuestionRepo(db, log),
			Products:    repos.NewProductRepo(db, log),
		},
		ents:   repos.NewEntitlementRepo(db, log),
		orders: repos.NewCheckoutOrderRepo(db, log),
		users:  repos.NewUserRepo(db, log),
	}
	f.cache = NewCourseCache(log, f.repos.Courses, nil, 0)
	f.access = NewAccessService(log, f.ents, f.repos.Courses, f.repos.Products, f.events)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int        { return &i }
func boolPtr(b bool) *bool     { return &b }
