package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
)

func TestStatusForCode(t *testing.T) {
	cases := map[domainagg.ErrorCode]int{
		domainagg.CodeNotFound:           http.StatusNotFound,
		domainagg.CodeValidation:         http.StatusBadRequest,
		domainagg.CodeValidationRejected: http.StatusForbidden,
		domainagg.CodeInvariantViolation: http.StatusUnprocessableEntity,
		domainagg.CodeConflict:           http.StatusConflict,
		domainagg.CodeSubstrateFailure:   http.StatusServiceUnavailable,
		domainagg.CodeRetryable:          http.StatusServiceUnavailable,
		domainagg.CodeInternal:           http.StatusInternalServerError,
		"":                               http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusForCode(code); got != want {
			t.Fatalf("StatusForCode(%q): want=%d got=%d", code, want, got)
		}
	}
}

func TestRespondAggregateError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(err error) (int, ErrorEnvelope) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondAggregateError(c, err)
		var env ErrorEnvelope
		if uerr := json.Unmarshal(rec.Body.Bytes(), &env); uerr != nil {
			t.Fatalf("decode: %v", uerr)
		}
		return rec.Code, env
	}

	status, env := run(domainagg.NewError(domainagg.CodeInvariantViolation, "create_participant", "Name is too long", nil))
	if status != http.StatusUnprocessableEntity || env.Error.Code != "invariant_violation" {
		t.Fatalf("invariant: status=%d env=%+v", status, env)
	}
	if env.Error.Message != "create_participant: Name is too long (invariant_violation)" {
		t.Fatalf("message: %q", env.Error.Message)
	}

	status, env = run(errors.New("boom"))
	if status != http.StatusInternalServerError || env.Error.Code != "internal" {
		t.Fatalf("plain error: status=%d env=%+v", status, env)
	}
}
