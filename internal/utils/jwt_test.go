package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// JWTTestSuite JWT工具测试套件
type JWTTestSuite struct {
	suite.Suite
	manager *JWTManager
}

func (suite *JWTTestSuite) SetupTest() {
	suite.manager = NewJWTManager(
		"test-secret-key",
		1*time.Hour,    // access token expiry
		7*24*time.Hour, // refresh token expiry
	)
}

// 测试创建JWT管理器
func (suite *JWTTestSuite) TestNewJWTManager() {
	manager := NewJWTManager("secret", 1*time.Hour, 24*time.Hour)
	suite.NotNil(manager)
	// 私有字段无法直接访问，通过GetTokenExpiry间接验证
	suite.Equal(1*time.Hour, manager.GetTokenExpiry("access"))
	suite.Equal(24*time.Hour, manager.GetTokenExpiry("refresh"))
}

// 测试生成访问令牌
func (suite *JWTTestSuite) TestGenerateAccessToken() {
	token, err := suite.manager.GenerateAccessToken("admin", "admin")
	suite.NoError(err)
	suite.NotEmpty(token)
}

// 测试验证令牌
func (suite *JWTTestSuite) TestValidateToken() {
	token, _ := suite.manager.GenerateAccessToken("admin", "admin")

	claims, err := suite.manager.ValidateToken(token)
	suite.NoError(err)
	suite.NotNil(claims)
	suite.Equal("admin", claims.Username)
	suite.Equal("admin", claims.Role)
	suite.Equal("access", claims.TokenType)
	suite.Equal("display-service", claims.Issuer)
}

// 测试验证无效令牌
func (suite *JWTTestSuite) TestValidateInvalidToken() {
	claims, err := suite.manager.ValidateToken("不是一个有效的令牌")
	suite.Error(err)
	suite.Nil(claims)

	// 使用不同密钥签名的令牌
	other := NewJWTManager("另一个密钥", time.Hour, time.Hour)
	token, _ := other.GenerateAccessToken("admin", "admin")
	claims, err = suite.manager.ValidateToken(token)
	suite.Error(err)
	suite.Nil(claims)
}

// 测试过期令牌
func (suite *JWTTestSuite) TestExpiredToken() {
	expired := NewJWTManager("test-secret-key", -1*time.Hour, time.Hour)
	token, _ := expired.GenerateAccessToken("admin", "admin")

	claims, err := suite.manager.ValidateToken(token)
	suite.Error(err)
	suite.Nil(claims)
}

// 测试刷新令牌流程
func (suite *JWTTestSuite) TestRefreshAccessToken() {
	refresh, err := suite.manager.GenerateRefreshToken("admin")
	suite.NoError(err)

	access, err := suite.manager.RefreshAccessToken(refresh, "admin")
	suite.NoError(err)

	claims, err := suite.manager.ValidateToken(access)
	suite.NoError(err)
	suite.Equal("access", claims.TokenType)
	suite.Equal("admin", claims.Username)

	// access令牌不能用于刷新
	_, err = suite.manager.RefreshAccessToken(access, "admin")
	suite.Error(err)
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
