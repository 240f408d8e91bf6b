package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// 加密信封的 PBKDF2 参数，与历史数据保持一致，调整即破坏兼容
const (
	pbkdf2Iterations = 100000
	keyLength        = 32
	saltLength       = 16
)

var (
	// ErrNotEnvelope 表示字段不是加密信封，应按明文处理
	ErrNotEnvelope = errors.New("value is not an encrypted envelope")
	// ErrSecretMissing 表示未配置解密口令
	ErrSecretMissing = errors.New("envelope secret is not configured")
)

// Envelope 描述加密字段的存储结构
// 所有二进制字段均为 base64 编码
type Envelope struct {
	IsEncrypted bool   `json:"isEncrypted"`
	Salt        string `json:"salt"`
	IV          string `json:"iv"`
	Data        string `json:"data"`
}

// Codec 负责加密信封的编解码，secret 为派生密钥的口令
type Codec struct {
	secret string
}

// NewCodec 构造 Codec
func NewCodec(secret string) *Codec {
	return &Codec{secret: strings.TrimSpace(secret)}
}

// IsEnvelope 判断原始字段值是否为加密信封 JSON
func IsEnvelope(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}

	var env Envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return false
	}
	return env.IsEncrypted
}

// Decode 将原始字段值解码为明文。
// 非信封值原样返回；信封值解密失败时返回错误，由调用方决定回退策略。
func (c *Codec) Decode(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw, nil
	}

	var env Envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return raw, nil
	}
	if !env.IsEncrypted {
		return raw, nil
	}

	return c.open(env)
}

// Encrypt 将明文封装为加密信封 JSON 字符串
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if c.secret == "" {
		return "", ErrSecretMissing
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	env := Envelope{
		IsEncrypted: true,
		Salt:        base64.StdEncoding.EncodeToString(salt),
		IV:          base64.StdEncoding.EncodeToString(nonce),
		Data:        base64.StdEncoding.EncodeToString(sealed),
	}

	out, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(out), nil
}

func (c *Codec) open(env Envelope) (string, error) {
	if c.secret == "" {
		return "", ErrSecretMissing
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return "", fmt.Errorf("decode iv: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return "", fmt.Errorf("decode data: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	if len(nonce) != gcm.NonceSize() {
		return "", errors.New("invalid nonce length")
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open envelope: %w", err)
	}
	return string(plaintext), nil
}

func (c *Codec) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(c.secret), salt, pbkdf2Iterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
