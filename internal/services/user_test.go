package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

func TestUserService_EnsureUpserts(t *testing.T) {
	f := newFixture(t)
	us := NewUserService(f.log, f.users)

	first, err := us.Ensure(f.ctx, Identity{ExternalID: "ext-1", Email: "ada@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := us.Ensure(f.ctx, Identity{ExternalID: "ext-1", Email: "ada@example.com", Name: "Ada L."})
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("Ensure: want same id %s got %s", first.ID, second.ID)
	}
	if second.Name != "Ada L." {
		t.Fatalf("Ensure: want refreshed name got %q", second.Name)
	}

	me, err := us.GetMe(f.ctx, first.ID)
	if err != nil || me.Email != "ada@example.com" {
		t.Fatalf("GetMe: got=%+v err=%v", me, err)
	}
	if _, err := us.GetMe(f.ctx, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("GetMe unknown: want ErrNotFound got %v", err)
	}

	users, total, err := us.List(f.ctx, 0, 0)
	if err != nil || total != 1 || len(users) != 1 {
		t.Fatalf("List: want 1 got len=%d total=%d err=%v", len(users), total, err)
	}

	if _, err := us.Ensure(f.ctx, Identity{Email: "x@example.com"}); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("Ensure without sub: want ErrUnauthorized got %v", err)
	}
}
