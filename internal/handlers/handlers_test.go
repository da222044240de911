package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friend-service/internal/mocks"
	"friend-service/internal/models"
	"friend-service/internal/social"
)

const (
	caller = "a0000000-0000-0000-0000-00000000000a"
	friend = "b0000000-0000-0000-0000-00000000000b"
)

func setupRouter(service FriendService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", func(c *gin.Context) {
		c.Set("userID", caller)
		c.Next()
	})
	RegisterRoutes(group, service)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			payload.WriteString(v)
		default:
			_ = json.NewEncoder(&payload).Encode(v)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSendRequestCreated(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)

	service.On("SendRequest", mock.Anything, caller, friend).
		Return(models.Relationship{ID: 3, InitiatorID: caller, RecipientID: friend, Status: models.StatusPending}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/users/"+friend+"/request", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "pending", resp["status"])
	service.AssertExpectations(t)
}

func TestSendRequestInvalidUserID(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)

	rec := doRequest(router, http.MethodPost, "/users/42/request", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decode(t, rec)["error"])
	service.AssertNotCalled(t, "SendRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"transition", errors.Wrap(social.ErrInvalidTransition, "no pending request"), http.StatusConflict, "invalid_transition"},
		{"input", errors.Wrap(social.ErrInvalidInput, "bad"), http.StatusBadRequest, "invalid_input"},
		{"unauthorized", errors.Wrap(social.ErrUnauthorized, "only the recipient"), http.StatusForbidden, "unauthorized"},
		{"not found", errors.Wrap(social.ErrNotFound, "user"), http.StatusNotFound, "not_found"},
		{"store", &social.StoreError{Op: "accept relationship", Err: errors.New("conn reset")}, http.StatusInternalServerError, "store_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(mocks.FriendServiceMock)
			router := setupRouter(service)
			service.On("Approve", mock.Anything, caller, friend).Return(nil, tc.err).Once()

			rec := doRequest(router, http.MethodPost, "/users/"+friend+"/approve", nil)

			require.Equal(t, tc.status, rec.Code)
			resp := decode(t, rec)
			assert.Equal(t, tc.kind, resp["error"])
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp["message"])
			}
		})
	}
}

func TestApproveReturnsChat(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("Approve", mock.Anything, caller, friend).Return(models.Chat{ID: 11}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/users/"+friend+"/approve", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(11), decode(t, rec)["chat_id"])
}

func TestCancelRejectUnfriendNoContent(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("CancelRequest", mock.Anything, caller, friend).Return(nil).Once()
	service.On("Reject", mock.Anything, caller, friend).Return(nil).Once()
	service.On("Unfriend", mock.Anything, caller, friend).Return(nil).Once()

	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/users/"+friend+"/request", nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/users/"+friend+"/reject", nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/users/"+friend+"/friend", nil).Code)
	service.AssertExpectations(t)
}

func TestStatusIncludesOwnSlot(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	rel := &models.Relationship{ID: 5, InitiatorID: friend, RecipientID: caller, Status: models.StatusAccepted, RecipientAttributes: []int64{7}}
	service.On("Status", mock.Anything, caller, friend).Return(social.FriendStatusFriends, rel, nil).Once()

	rec := doRequest(router, http.MethodGet, "/users/"+friend+"/relationship", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "friends", resp["status"])
	assert.Equal(t, float64(5), resp["relationship_id"])
	assert.Equal(t, []any{float64(7)}, resp["attribute_ids"])
}

func TestListFriendsParsesSelection(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("Friends", mock.Anything, caller, []int64{1, 7}).
		Return([]models.FriendView{{RelationshipID: 5, UserID: friend, Labels: []string{"climbing"}}}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/friends?attributes=1,%207,", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode(t, rec)["friends"].([]any)
	require.Len(t, friends, 1)
	service.AssertExpectations(t)
}

func TestListFriendsWithoutSelection(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("Friends", mock.Anything, caller, []int64(nil)).Return([]models.FriendView{}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/friends", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestListFriendsRejectsBadSelection(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)

	rec := doRequest(router, http.MethodGet, "/friends?attributes=climbing", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAttribute(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("CreateAttribute", mock.Anything, caller, "climbing").
		Return(models.Attribute{ID: 7, OwnerID: caller, Label: "climbing"}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/attributes", map[string]string{"label": "climbing"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "climbing", decode(t, rec)["label"])
}

func TestCreateAttributeRequiresLabel(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)

	rec := doRequest(router, http.MethodPost, "/attributes", map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "CreateAttribute", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAttribute(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("DeleteAttribute", mock.Anything, caller, int64(7)).Return(errors.Wrap(social.ErrUnauthorized, "owned by another user")).Once()

	rec := doRequest(router, http.MethodDelete, "/attributes/7", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/attributes/seven", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertExpectations(t)
}

func TestAssignAttributesAcceptsMixedIDs(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("AssignOwnAttributes", mock.Anything, caller, int64(5), []int64{1, 7}).Return(nil).Once()

	rec := doRequest(router, http.MethodPut, "/relationships/5/attributes", `{"attribute_ids":["1",7]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestAssignAttributesRejectsNonNumeric(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)

	rec := doRequest(router, http.MethodPut, "/relationships/5/attributes", `{"attribute_ids":["gym"]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnounceEvent(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("AnnounceEvent", mock.Anything, caller, []int64{7}).
		Return([]models.NotificationIntent{{TargetUserID: friend}}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/events/announce", `{"selected_attributes":["7"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{friend}, decode(t, rec)["notified"])
}

func TestRequestLists(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("IncomingRequests", mock.Anything, caller).Return([]models.RequestView{{RelationshipID: 1, UserID: friend}}, nil).Once()
	service.On("OutgoingRequests", mock.Anything, caller).Return(nil, &social.StoreError{Op: "list requests", Err: errors.New("timeout")}).Once()

	rec := doRequest(router, http.MethodGet, "/requests/incoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["requests"], 1)

	rec = doRequest(router, http.MethodGet, "/requests/outgoing", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegisterPushToken(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	service.On("RegisterPushToken", mock.Anything, caller, "ExponentPushToken[x]").Return(nil).Once()

	rec := doRequest(router, http.MethodPut, "/me/push-token", map[string]string{"token": "ExponentPushToken[x]"})

	require.Equal(t, http.StatusNoContent, rec.Code)
	service.AssertExpectations(t)
}

func TestBanUser(t *testing.T) {
	service := new(mocks.FriendServiceMock)
	router := setupRouter(service)
	until := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	service.On("BanUser", mock.Anything, caller, friend, social.BanOneWeek).Return(until, nil).Once()

	rec := doRequest(router, http.MethodPost, "/admin/users/"+friend+"/ban", map[string]string{"duration": "1_week"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-08T00:00:00Z", decode(t, rec)["banned_until"])
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = parseIDList("3, 4")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids)

	_, err = parseIDList("3,x")
	assert.Error(t, err)
}
