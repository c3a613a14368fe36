package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Count int    `json:"count" binding:"omitempty,gte=0,lte=10"`
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantOK         bool
		wantFields     []string
	}{
		{
			name:           "valid",
			body:           `{"name":"Ann","email":"ann@x.com","count":3}`,
			wantStatusCode: http.StatusOK,
			wantOK:         true,
		},
		{
			name:           "empty_body",
			body:           ``,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_required",
			body:           `{"email":"ann@x.com"}`,
			wantStatusCode: http.StatusBadRequest,
			wantFields:     []string{"name"},
		},
		{
			name:           "multiple_violations",
			body:           `{"email":"not-an-email","count":99}`,
			wantStatusCode: http.StatusBadRequest,
			wantFields:     []string{"name", "email", "count"},
		},
		{
			name:           "malformed_json",
			body:           `{"name":`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var gotOK bool

			r := setupRouter(http.MethodPost, "/bind", func(ctx *gin.Context) {
				var target bindTarget

				gotOK = handlers.BindJSON(ctx, &target)

				if gotOK {
					ctx.JSON(http.StatusOK, target)
				}
			})

			w := doJSON(r, http.MethodPost, "/bind", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if gotOK != tt.wantOK {
				t.Fatalf("BindJSON returned %v, want %v", gotOK, tt.wantOK)
			}

			if len(tt.wantFields) == 0 {
				return
			}

			var resp struct {
				Details struct {
					Fields []handlers.FieldError `json:"fields"`
				} `json:"details"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			got := make(map[string]bool, len(resp.Details.Fields))
			for _, fe := range resp.Details.Fields {
				got[fe.Field] = true
			}

			for _, want := range tt.wantFields {
				if !got[want] {
					t.Fatalf("missing violation for %q in %+v", want, resp.Details.Fields)
				}
			}
		})
	}
}
