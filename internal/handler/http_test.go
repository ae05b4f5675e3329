package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"survival-server/internal/handler"
	"survival-server/internal/models"
	"survival-server/internal/service"
	"survival-server/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

type handlerEnv struct {
	sessionSvc *mocks.SessionService
	gameSvc    *mocks.GameService
	reportSvc  *mocks.ReportService
	router     *gin.Engine
}

func newHandlerEnv() *handlerEnv {
	gin.SetMode(gin.TestMode)
	env := &handlerEnv{
		sessionSvc: new(mocks.SessionService),
		gameSvc:    new(mocks.GameService),
		reportSvc:  new(mocks.ReportService),
	}
	h := handler.NewGameHandler(env.sessionSvc, env.gameSvc, env.reportSvc, testJWTSecret, zap.NewNop())
	env.router = gin.New()
	h.RegisterRoutes(env.router)
	return env
}

func signToken(t *testing.T, userID int64) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return signed
}

func (env *handlerEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthGuard(t *testing.T) {
	t.Run("Missing token", func(t *testing.T) {
		env := newHandlerEnv()
		rec := env.do(t, http.MethodGet, "/game/session", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, models.ErrCodeUnauthorized, decodeError(t, rec).Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		env := newHandlerEnv()
		rec := env.do(t, http.MethodGet, "/game/session", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong signing key", func(t *testing.T) {
		env := newHandlerEnv()
		claims := jwt.MapClaims{"user_id": int64(7), "exp": time.Now().Add(time.Hour).Unix()}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		assert.NoError(t, err)

		rec := env.do(t, http.MethodGet, "/game/session", forged, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env.gameSvc.AssertNotCalled(t, "GetSessionSnapshot")
	})

	t.Run("Token without user_id", func(t *testing.T) {
		env := newHandlerEnv()
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
		assert.NoError(t, err)

		rec := env.do(t, http.MethodGet, "/game/session", signed, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetSessionRoute(t *testing.T) {
	t.Run("Returns the snapshot", func(t *testing.T) {
		env := newHandlerEnv()
		env.gameSvc.On("GetSessionSnapshot", mock.Anything, int64(7)).
			Return(&service.SessionSnapshot{SessionID: 100, Status: models.SessionStatusInProgress}, nil).Once()

		rec := env.do(t, http.MethodGet, "/game/session", signToken(t, 7), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var snap service.SessionSnapshot
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, int64(100), snap.SessionID)
		env.gameSvc.AssertExpectations(t)
	})

	t.Run("No active session maps to 404", func(t *testing.T) {
		env := newHandlerEnv()
		env.gameSvc.On("GetSessionSnapshot", mock.Anything, int64(7)).
			Return(nil, models.ErrSessionNotFound).Once()

		rec := env.do(t, http.MethodGet, "/game/session", signToken(t, 7), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, models.ErrCodeSessionNotFound, decodeError(t, rec).Code)
	})
}

func TestCreateSessionRoute(t *testing.T) {
	env := newHandlerEnv()
	env.gameSvc.On("CreateOrResetSession", mock.Anything, int64(7)).
		Return(&service.SessionSnapshot{SessionID: 101}, nil).Once()

	rec := env.do(t, http.MethodPost, "/game/session", signToken(t, 7), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	env.gameSvc.AssertExpectations(t)
}

func TestSelectCharacterSetRoute(t *testing.T) {
	t.Run("Passes the group id through", func(t *testing.T) {
		env := newHandlerEnv()
		env.gameSvc.On("SelectCharacterSet", mock.Anything, int64(7), int64(2)).
			Return(&service.SessionSnapshot{SessionID: 100}, nil).Once()

		rec := env.do(t, http.MethodPost, "/game/session/character-set", signToken(t, 7),
			gin.H{"characterGroupId": 2})
		assert.Equal(t, http.StatusOK, rec.Code)
		env.gameSvc.AssertExpectations(t)
	})

	t.Run("Missing group id fails validation", func(t *testing.T) {
		env := newHandlerEnv()
		rec := env.do(t, http.MethodPost, "/game/session/character-set", signToken(t, 7), gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.ErrCodeValidation, decodeError(t, rec).Code)
		env.gameSvc.AssertNotCalled(t, "SelectCharacterSet")
	})

	t.Run("Empty group maps to 400", func(t *testing.T) {
		env := newHandlerEnv()
		env.gameSvc.On("SelectCharacterSet", mock.Anything, int64(7), int64(2)).
			Return(nil, models.ErrCharacterGroupEmpty).Once()

		rec := env.do(t, http.MethodPost, "/game/session/character-set", signToken(t, 7),
			gin.H{"characterGroupId": 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNextActRoute(t *testing.T) {
	t.Run("Completes and advances", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("ExecuteNextAct", mock.Anything, int64(7), mock.MatchedBy(func(req *service.NextActRequest) bool {
			return req.LastActID != nil && *req.LastActID == 5 &&
				req.Choice != nil && req.Choice.ChoiceOptionID == 201
		})).Return(&service.NextActResponse{
			SessionID: 100,
			Status:    models.SessionStatusInProgress,
			Act:       &service.ActMeta{ID: 6, SequenceNumber: 2},
			Events:    []*service.AssembledEvent{},
		}, nil).Once()

		rec := env.do(t, http.MethodPost, "/sessions/active/next", signToken(t, 7), gin.H{
			"lastActId": 5,
			"choice":    gin.H{"choiceOptionId": 201},
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp service.NextActResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.SessionStatusInProgress, resp.Status)
		assert.Equal(t, int64(6), resp.Act.ID)
		env.sessionSvc.AssertExpectations(t)
	})

	t.Run("Act mismatch maps to 409", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("ExecuteNextAct", mock.Anything, int64(7), mock.Anything).
			Return(nil, models.ErrActMismatch).Once()

		rec := env.do(t, http.MethodPost, "/sessions/active/next", signToken(t, 7), gin.H{"lastActId": 99})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, models.ErrCodeActMismatch, decodeError(t, rec).Code)
	})

	t.Run("Uninitialized stat maps to 400 with its code", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("ExecuteNextAct", mock.Anything, int64(7), mock.Anything).
			Return(nil, models.ErrHPNotInitialized).Once()

		rec := env.do(t, http.MethodPost, "/sessions/active/next", signToken(t, 7), gin.H{
			"lastActId": 5,
			"updates":   gin.H{"characterStatusChanges": []gin.H{{"characterCode": "JIWON", "hpChange": -5}}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.ErrCodeHPNotInitialized, decodeError(t, rec).Code)
	})

	t.Run("Unconfirmed bag maps to 409", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("ExecuteNextAct", mock.Anything, int64(7), mock.Anything).
			Return(nil, models.ErrBagNotConfirmed).Once()

		rec := env.do(t, http.MethodPost, "/sessions/active/next", signToken(t, 7), gin.H{})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSessionReportRoute(t *testing.T) {
	t.Run("Parses the id and returns the report", func(t *testing.T) {
		env := newHandlerEnv()
		env.reportSvc.On("GetSessionReport", mock.Anything, int64(100), int64(7)).
			Return(&service.SessionReport{SessionID: 100, Status: models.SessionStatusGameEnd, XP: 275}, nil).Once()

		rec := env.do(t, http.MethodGet, "/sessions/100/report", signToken(t, 7), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		env.reportSvc.AssertExpectations(t)
	})

	t.Run("Non-numeric id fails validation", func(t *testing.T) {
		env := newHandlerEnv()
		rec := env.do(t, http.MethodGet, "/sessions/abc/report", signToken(t, 7), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.reportSvc.AssertNotCalled(t, "GetSessionReport")
	})

	t.Run("Running session maps to 409", func(t *testing.T) {
		env := newHandlerEnv()
		env.reportSvc.On("GetSessionReport", mock.Anything, int64(100), int64(7)).
			Return(nil, models.ErrReportNotAvailable).Once()

		rec := env.do(t, http.MethodGet, "/sessions/100/report", signToken(t, 7), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHistoryRoute(t *testing.T) {
	t.Run("Defaults page and limit", func(t *testing.T) {
		env := newHandlerEnv()
		env.reportSvc.On("GetHistory", mock.Anything, int64(7), 1, 20).
			Return(&service.HistoryPage{Entries: []*service.HistoryEntry{}, Page: 1, Size: 20}, nil).Once()

		rec := env.do(t, http.MethodGet, "/sessions/history", signToken(t, 7), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		env.reportSvc.AssertExpectations(t)
	})

	t.Run("Caps the limit at 100", func(t *testing.T) {
		env := newHandlerEnv()
		env.reportSvc.On("GetHistory", mock.Anything, int64(7), 3, 100).
			Return(&service.HistoryPage{Entries: []*service.HistoryEntry{}, Page: 3, Size: 100}, nil).Once()

		rec := env.do(t, http.MethodGet, "/sessions/history?page=3&limit=500", signToken(t, 7), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		env.reportSvc.AssertExpectations(t)
	})

	t.Run("Rejects a non-numeric page", func(t *testing.T) {
		env := newHandlerEnv()
		rec := env.do(t, http.MethodGet, "/sessions/history?page=abc", signToken(t, 7), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.reportSvc.AssertNotCalled(t, "GetHistory")
	})
}

func TestRankingRoute(t *testing.T) {
	env := newHandlerEnv()
	me := &service.RankingEntry{UserID: 7, TotalXP: 500, Ranking: 6, IsMe: true}
	env.reportSvc.On("GetRanking", mock.Anything, int64(7)).
		Return(&service.RankingSummary{
			Top: []*service.RankingEntry{{UserID: 3, TotalXP: 900, Ranking: 1}},
			Me:  me,
			BestEndings: []*service.GroupBestEnding{
				{CharacterGroupID: 1, EndingID: 40, Priority: 1, Title: "Survived"},
			},
		}, nil).Once()

	rec := env.do(t, http.MethodGet, "/sessions/ranking", signToken(t, 7), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.RankingSummary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Top, 1)
	assert.NotNil(t, resp.Me)
	assert.True(t, resp.Me.IsMe)
	assert.Equal(t, 6, resp.Me.Ranking)
	assert.Len(t, resp.BestEndings, 1)
	assert.Equal(t, int64(40), resp.BestEndings[0].EndingID)
}

func TestIntroRoute(t *testing.T) {
	t.Run("Plays the selected sequence", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("PlayIntro", mock.Anything, int64(7), 1).
			Return(&service.IntroResponse{SessionID: 100, IntroMode: 1, Events: []*service.AssembledEvent{}}, nil).Once()

		rec := env.do(t, http.MethodPost, "/sessions/intro", signToken(t, 7), gin.H{"introMode": 1})
		assert.Equal(t, http.StatusOK, rec.Code)
		env.sessionSvc.AssertExpectations(t)
	})

	t.Run("Missing sequence maps to 404", func(t *testing.T) {
		env := newHandlerEnv()
		env.sessionSvc.On("PlayIntro", mock.Anything, int64(7), 0).
			Return(nil, models.ErrIntroSequenceNotFound).Once()

		rec := env.do(t, http.MethodPost, "/sessions/intro", signToken(t, 7), gin.H{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestConfirmInventoryRoute(t *testing.T) {
	env := newHandlerEnv()
	env.gameSvc.On("ConfirmInventory", mock.Anything, int64(7), mock.MatchedBy(func(req *service.ConfirmInventoryRequest) bool {
		return req.BagID == 4 && len(req.Items) == 1 && req.Items[0].ItemID == 55
	})).Return(&service.SessionSnapshot{SessionID: 100, BagConfirmed: true}, nil).Once()

	rec := env.do(t, http.MethodPost, "/game/session/inventory", signToken(t, 7), gin.H{
		"bagId": 4,
		"items": []gin.H{{"itemId": 55, "quantityChange": 2}},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	env.gameSvc.AssertExpectations(t)
}
