package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/utils"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		overrides  []statusOverride
		wantStatus int
		wantDetail string
	}{
		{"not found", &services.Error{Kind: services.ErrNotFound, Detail: "Post not found."}, nil, http.StatusNotFound, "Post not found."},
		{"conflict", &services.Error{Kind: services.ErrConflict, Detail: "dup"}, nil, http.StatusConflict, "dup"},
		{"conflict as bad request", &services.Error{Kind: services.ErrConflict, Detail: "dup"},
			[]statusOverride{{services.ErrConflict, http.StatusBadRequest}}, http.StatusBadRequest, "dup"},
		{"invalid operation", &services.Error{Kind: services.ErrInvalidOperation, Detail: "self"}, nil, http.StatusBadRequest, "self"},
		{"forbidden", &services.Error{Kind: services.ErrForbidden, Detail: "no"}, nil, http.StatusForbidden, "no"},
		{"override ignores other kinds", &services.Error{Kind: services.ErrForbidden, Detail: "no"},
			[]statusOverride{{services.ErrConflict, http.StatusBadRequest}}, http.StatusForbidden, "no"},
		{"wrapped", fmt.Errorf("ctx: %w", &services.Error{Kind: services.ErrInvalid, Detail: "text: blank"}), nil, http.StatusBadRequest, "text: blank"},
		{"unknown", errors.New("db down"), nil, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(ctx, tt.err, tt.overrides...)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body utils.JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body.Detail)
			assert.NotZero(t, body.Code)
		})
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, raw := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := pathID(ctx, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusNotFound, w.Code, raw)
	}

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := pathID(ctx, "id")
	assert.True(t, ok)
	assert.EqualValues(t, 12, id)
}
