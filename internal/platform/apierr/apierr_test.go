package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHelpersWrapKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    *Error
		kind   error
		status int
	}{
		{"not_found", NotFound("lesson_not_found", "lesson %s", "abc"), ErrNotFound, http.StatusNotFound},
		{"validation", Validation("invalid_question", "need at least 2 options"), ErrValidation, http.StatusUnprocessableEntity},
		{"malformed", Malformed("answer_count_mismatch", "want=%d got=%d", 3, 2), ErrMalformed, http.StatusBadRequest},
		{"conflict", Conflict("already_entitled", ""), ErrConflict, http.StatusConflict},
		{"forbidden", Forbidden("admin_only", ""), ErrForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("invalid_token", ""), ErrUnauthorized, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tc.err, tc.kind) {
				t.Fatalf("errors.Is(%v, %v) = false", tc.err, tc.kind)
			}
			if tc.err.Status != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, tc.err.Status)
			}
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := NotFound("quiz_not_found", "quiz %d", 7)
	wrapped := fmt.Errorf("submit: %w", base)

	got, ok := As(wrapped)
	if !ok || got.Code != "quiz_not_found" {
		t.Fatalf("As: ok=%v got=%+v", ok, got)
	}
	if got.Error() != "quiz 7: not found" {
		t.Fatalf("message: got=%q", got.Error())
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("As on plain error should fail")
	}
}
