package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// PasswordTestSuite 密码工具测试套件
type PasswordTestSuite struct {
	suite.Suite
}

// 测试密码哈希与验证
func (suite *PasswordTestSuite) TestHashAndVerify() {
	hash, err := HashPassword("my-secret-password")
	suite.NoError(err)
	suite.True(strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("my-secret-password", hash)
	suite.NoError(err)
	suite.True(ok)

	ok, err = VerifyPassword("wrong-password", hash)
	suite.NoError(err)
	suite.False(ok)
}

// 测试相同密码生成不同哈希（随机盐）
func (suite *PasswordTestSuite) TestHashUniqueness() {
	h1, err := HashPassword("same-password")
	suite.NoError(err)
	h2, err := HashPassword("same-password")
	suite.NoError(err)
	suite.NotEqual(h1, h2)
}

// 测试无效哈希格式
func (suite *PasswordTestSuite) TestVerifyInvalidFormat() {
	ok, err := VerifyPassword("password", "不是哈希")
	suite.Error(err)
	suite.False(ok)

	ok, err = VerifyPassword("password", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	suite.Error(err)
	suite.False(ok)
}

// 测试自定义配置
func (suite *PasswordTestSuite) TestCustomConfig() {
	config := &PasswordConfig{
		Time:    2,
		Memory:  32 * 1024,
		Threads: 2,
		KeyLen:  16,
	}

	hash, err := HashPasswordWithConfig("password", config)
	suite.NoError(err)

	// 验证时从哈希字符串中恢复配置
	ok, err := VerifyPassword("password", hash)
	suite.NoError(err)
	suite.True(ok)
}

// 测试随机字符串生成
func (suite *PasswordTestSuite) TestGenerateRandomString() {
	s1, err := GenerateRandomString(32)
	suite.NoError(err)
	suite.Len(s1, 32)

	s2, err := GenerateRandomString(32)
	suite.NoError(err)
	suite.NotEqual(s1, s2)
}

func TestPasswordTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordTestSuite))
}
