package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/display-service/internal/config"
	"github.com/wfunc/display-service/internal/display"
	"github.com/wfunc/display-service/internal/repository"
	"github.com/wfunc/display-service/internal/utils"
	ws "github.com/wfunc/display-service/internal/websocket"
	"go.uber.org/zap"
)

// newTestRouter 构建带模拟总线和内存数据库的完整路由
func newTestRouter(t *testing.T) *Router {
	gin.SetMode(gin.TestMode)

	hash, err := utils.HashPassword("test123456")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Security.JWT.Secret = "integration-test-secret"
	cfg.Security.JWT.ExpireHours = 1
	cfg.Security.JWT.RefreshHours = 24
	cfg.Security.Admin.Username = "admin"
	cfg.Security.Admin.PasswordHash = hash

	displayCfg := &config.DisplayConfig{
		Enabled:      true,
		MockMode:     true,
		PollInterval: 50 * time.Millisecond,
		ReadyTimeout: time.Second,
	}
	displayCfg.Recording.MaxSize = 65536

	manager := display.NewManager(displayCfg)
	require.NoError(t, manager.Initialize())
	require.NoError(t, manager.Start())
	t.Cleanup(func() { manager.Stop() })

	db := repository.SetupTestDB()
	t.Cleanup(func() { repository.CleanupTestDB(db) })

	hub := ws.NewHub(zap.NewNop())
	go hub.Run()

	return NewRouter(cfg, db, manager, hub, zap.NewNop())
}

// doJSON 发送JSON请求
func doJSON(router *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(w, req)
	return w
}

// login 登录并返回访问令牌
func login(t *testing.T, router *Router) string {
	w := doJSON(router, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "test123456",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// TestHealthCheck 测试健康检查
func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

// TestLoginFlow 测试登录流程
func TestLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	t.Run("正确凭证登录成功", func(t *testing.T) {
		token := login(t, router)
		assert.NotEmpty(t, token)
	})

	t.Run("错误密码返回401", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/auth/login", "", map[string]string{
			"username": "admin",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("缺少字段返回400", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/auth/login", "", map[string]string{
			"username": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestAuthRequired 测试认证保护
func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	// 无令牌访问受保护接口
	w := doJSON(router, "POST", "/api/v1/display/clear", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 无效令牌
	w = doJSON(router, "POST", "/api/v1/display/clear", "无效令牌", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 有效令牌
	token := login(t, router)
	w = doJSON(router, "POST", "/api/v1/display/clear", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestDisplayEndpoints 测试显示屏控制接口
func TestDisplayEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	t.Run("显示文本", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/display/text", token, map[string]interface{}{
			"text": "你好",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少文本返回400", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/display/text", token, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("画矩形", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/display/draw/rect", token, map[string]interface{}{
			"x": 10, "y": 10, "w": 50, "h": 30, "filled": true,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("图片尺寸不匹配返回400", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/display/image", token, map[string]interface{}{
			"mode": 1, "x": 0, "y": 0, "w": 4, "h": 4,
			"data": "AAAA", // 3字节，应为16字节
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("触发传感器读取", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/display/read/voltage", token, nil)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("设备状态", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/display/status", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["running"])
	})
}

// TestRecordingLifecycle 测试录制的完整生命周期
func TestRecordingLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	// 开始录制
	w := doJSON(router, "POST", "/api/v1/recordings/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 录制期间发送指令
	w = doJSON(router, "POST", "/api/v1/display/text", token, map[string]interface{}{
		"text": "录制测试",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 停止并保存
	w = doJSON(router, "POST", "/api/v1/recordings/stop", token, map[string]string{
		"name":        "开机画面",
		"description": "集成测试录制",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stopResp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stopResp))
	data := stopResp.Data.(map[string]interface{})
	require.NotZero(t, data["size"])
	id := int(data["id"].(float64))

	// 列表包含该录制
	w = doJSON(router, "GET", "/api/v1/recordings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.EqualValues(t, 1, listResp["total"])

	// 重放
	w = doJSON(router, "POST", "/api/v1/recordings/"+strconv.Itoa(id)+"/replay", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 详情的重放计数已更新
	w = doJSON(router, "GET", "/api/v1/recordings/"+strconv.Itoa(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var getResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &getResp))
	assert.EqualValues(t, 1, getResp["replay_count"])

	// 删除
	w = doJSON(router, "DELETE", "/api/v1/recordings/"+strconv.Itoa(id), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/v1/recordings/"+strconv.Itoa(id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestStopWithoutRecording 测试未录制时停止
func TestStopWithoutRecording(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	w := doJSON(router, "POST", "/api/v1/recordings/stop", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 0, data["size"])
}
