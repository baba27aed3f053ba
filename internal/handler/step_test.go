package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brickpile/internal/apierror"
	"brickpile/internal/dto"
	"brickpile/internal/model"
	"brickpile/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func stepRouter(pile []model.PilePiece) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStepHandler(service.NewSimulationService(pile))
	r.POST("/v1/step", h.TakeStep)
	return r
}

func handlerPile() []model.PilePiece {
	pile := make([]model.PilePiece, 0, 205)
	for i := 0; i < 200; i++ {
		pile = append(pile, model.PilePiece{
			PartName:    strPtr("Brick 2 x 4"),
			PartCatName: strPtr("Bricks"),
			ColorName:   strPtr("Red"),
			RGB:         strPtr("C91A09"),
		})
	}
	for i := 0; i < 5; i++ {
		pile = append(pile, model.PilePiece{
			ImgURL:      strPtr("http://img/3626.png"),
			PartName:    strPtr("Minifig Head, Plain"),
			PartCatName: strPtr("Minifig Heads"),
			ColorName:   strPtr("Yellow"),
			RGB:         strPtr("F2CD37"),
		})
	}
	return pile
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTakeStep_OK(t *testing.T) {
	r := stepRouter(handlerPile())

	w := postJSON(t, r, "/v1/step", dto.StepRequest{ShoeSize: 42})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEqual(t, uuid.Nil, resp.TrialID)
	assert.Equal(t, 42, resp.ShoeSize)
	assert.Positive(t, resp.PiecesSteppedOn)
	assert.GreaterOrEqual(t, resp.Damage, resp.PiecesSteppedOn)
	assert.NotEmpty(t, resp.Colors)
	require.NotNil(t, resp.FeaturedEnemy)
	require.NotNil(t, resp.FeaturedEnemy.ImgURL)
}

func TestTakeStep_ShoeSizeOutOfRange(t *testing.T) {
	r := stepRouter(handlerPile())

	w := postJSON(t, r, "/v1/step", dto.StepRequest{ShoeSize: 12})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation error", resp.Detail)
	assert.Contains(t, resp.Fields, "ShoeSize")
}

func TestTakeStep_MissingShoeSize(t *testing.T) {
	r := stepRouter(handlerPile())

	w := postJSON(t, r, "/v1/step", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTakeStep_MalformedJSON(t *testing.T) {
	r := stepRouter(handlerPile())

	req := httptest.NewRequest(http.MethodPost, "/v1/step", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "invalid JSON")
}

func TestTakeStep_EmptyPileStillOK(t *testing.T) {
	r := stepRouter(nil)

	w := postJSON(t, r, "/v1/step", dto.StepRequest{ShoeSize: 42})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.PiecesSteppedOn)
	assert.Empty(t, resp.Colors)
}
