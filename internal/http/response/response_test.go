package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

type bindMe struct {
	Name  string `json:"name" binding:"required"`
	Score *int   `json:"score" binding:"omitempty,min=0"`
}

func run(t *testing.T, h gin.HandlerFunc, body string) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", h)
	req := httptest.NewRequest(http.MethodPost, "/x", stringsReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRespondAPIError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not_found", apierr.NotFound("lesson_not_found", ""), http.StatusNotFound, "lesson_not_found"},
		{"malformed", apierr.Malformed("answer_count_mismatch", "expected 2 answers, got 1"), http.StatusBadRequest, "answer_count_mismatch"},
		{"validation", apierr.Validation("invalid_question", "x"), http.StatusUnprocessableEntity, "invalid_question"},
		{"plain", errors.New("db down"), http.StatusInternalServerError, "boom"},
		{"internal", apierr.Internal("completion_write_failed", errors.New("db down")), http.StatusInternalServerError, "completion_write_failed"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec, env := run(t, func(c *gin.Context) { RespondAPIError(c, "boom", tc.err) }, "")
			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, rec.Code)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code: want=%s got=%s", tc.code, env.Error.Code)
			}
			if tc.status >= 500 && env.Error.Message != "internal error" {
				t.Fatalf("5xx leaked message %q", env.Error.Message)
			}
		})
	}
}

func TestRespondInvalidRequest(t *testing.T) {
	rec, env := run(t, func(c *gin.Context) {
		var in bindMe
		if err := c.ShouldBindJSON(&in); err != nil {
			RespondAPIError(c, "bind_failed", err)
			return
		}
		c.Status(http.StatusNoContent)
	}, `{"score":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
	if env.Error.Code != "invalid_request" {
		t.Fatalf("code: want=invalid_request got=%s", env.Error.Code)
	}
	if env.Error.Fields["Name"] != "is required" || env.Error.Fields["Score"] != "must be at least 0" {
		t.Fatalf("fields: got=%v", env.Error.Fields)
	}
}
