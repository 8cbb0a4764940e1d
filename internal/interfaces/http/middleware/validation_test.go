package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type contactInput struct {
	Email string   `json:"email" binding:"required,email"`
	Phone string   `json:"phone" binding:"required,phone"`
	Items []string `json:"items" binding:"required,min=1"`
}

func bindRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var in contactInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": FormatValidationErrors(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator(t *testing.T) {
	require.NoError(t, SetupValidator())

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type phoneOnly struct {
		Phone string `binding:"phone"`
	}
	assert.NoError(t, v.Struct(phoneOnly{Phone: "+7 900 123 45 67"}))
	assert.Error(t, v.Struct(phoneOnly{Phone: "12"}))
}

func TestFormatValidationErrors(t *testing.T) {
	router := bindRouter(t)

	t.Run("reports fields by json name", func(t *testing.T) {
		w := post(router, `{"email": "nope", "phone": "12", "items": []}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "email: invalid email format")
		assert.Contains(t, body, "phone: invalid phone number")
		assert.Contains(t, body, "items: must contain at least 1 element(s)")
	})

	t.Run("valid input passes", func(t *testing.T) {
		w := post(router, `{"email": "a@b.com", "phone": "+7 900 123 45 67", "items": ["x"]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed json is an invalid body", func(t *testing.T) {
		w := post(router, `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid request body")
	})
}

func TestGetValidationMessage(t *testing.T) {
	type fields struct {
		Required string `validate:"required"`
		OneOf    string `validate:"oneof=card cash"`
		Numeric  string `validate:"numeric"`
	}

	err := validator.New().Struct(fields{OneOf: "bank", Numeric: "abc"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "field is required", got["Required"])
	assert.Equal(t, "must be one of: card cash", got["OneOf"])
	assert.Equal(t, "must be numeric", got["Numeric"])
}
