package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates RS256 signed tokens. Revocation is
// tracked in memory by token ID, bounded by the refresh token lifetime.
type JWTManager struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	revokedTokens map[string]time.Time
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
}

// JWTConfig configures a JWTManager. When the PEM fields are empty a
// fresh key pair is generated at startup.
type JWTConfig struct {
	PrivateKeyPEM string
	PublicKeyPEM  string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	KeySize       int
}

// DefaultJWTConfig returns the configuration used by the server binary.
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		Issuer:     "exampulse",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		KeySize:    2048,
	}
}

// NewJWTManager creates a JWT manager, loading or generating its key pair.
func NewJWTManager(config *JWTConfig) (*JWTManager, error) {
	if config == nil {
		config = DefaultJWTConfig()
	}

	m := &JWTManager{
		issuer:        config.Issuer,
		accessTTL:     config.AccessTTL,
		refreshTTL:    config.RefreshTTL,
		revokedTokens: make(map[string]time.Time),
	}

	if config.PrivateKeyPEM != "" && config.PublicKeyPEM != "" {
		if err := m.loadKeysFromPEM(config.PrivateKeyPEM, config.PublicKeyPEM); err != nil {
			return nil, fmt.Errorf("failed to load keys: %w", err)
		}
	} else {
		if err := m.generateKeys(config.KeySize); err != nil {
			return nil, fmt.Errorf("failed to generate keys: %w", err)
		}
	}

	m.startCleanup()
	return m, nil
}

func (j *JWTManager) loadKeysFromPEM(privateKeyPEM, publicKeyPEM string) error {
	privateBlock, _ := pem.Decode([]byte(privateKeyPEM))
	if privateBlock == nil {
		return fmt.Errorf("failed to decode private key PEM")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(privateBlock.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	publicBlock, _ := pem.Decode([]byte(publicKeyPEM))
	if publicBlock == nil {
		return fmt.Errorf("failed to decode public key PEM")
	}
	publicKeyInterface, err := x509.ParsePKIXPublicKey(publicBlock.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}
	publicKey, ok := publicKeyInterface.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("public key is not RSA")
	}

	j.privateKey = privateKey
	j.publicKey = publicKey
	return nil
}

func (j *JWTManager) generateKeys(keySize int) error {
	privateKey, err := rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return fmt.Errorf("failed to generate private key: %w", err)
	}
	j.privateKey = privateKey
	j.publicKey = &privateKey.PublicKey
	return nil
}

// GenerateToken signs a token for the given claims, filling in the
// registered claims and token ID.
func (j *JWTManager) GenerateToken(claims *Claims) (string, error) {
	if claims == nil {
		return "", fmt.Errorf("claims cannot be nil")
	}

	now := time.Now()
	if claims.TokenID == "" {
		claims.TokenID = uuid.New().String()
	}

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   claims.UserID.String(),
		Audience:  []string{j.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL(claims.TokenType))),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        claims.TokenID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(j.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if j.IsTokenRevoked(claims.TokenID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (j *JWTManager) RefreshToken(tokenString string) (string, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", fmt.Errorf("token is not a refresh token")
	}

	return j.GenerateToken(&Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		TokenType: TokenTypeAccess,
	})
}

// CreateTokenPair issues an access and a refresh token for a user.
func (j *JWTManager) CreateTokenPair(userID uuid.UUID, name, email string, role Role) (*TokenPair, error) {
	accessToken, err := j.GenerateToken(&Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		TokenType: TokenTypeAccess,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := j.GenerateToken(&Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		TokenType: TokenTypeRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(j.accessTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// IsTokenRevoked reports whether the token ID has been revoked.
func (j *JWTManager) IsTokenRevoked(tokenID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[tokenID]
	return revoked
}

// RevokeToken revokes a token by its ID.
func (j *JWTManager) RevokeToken(tokenID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[tokenID] = time.Now()
}

func (j *JWTManager) tokenTTL(tokenType TokenType) time.Duration {
	if tokenType == TokenTypeRefresh {
		return j.refreshTTL
	}
	return j.accessTTL
}

func (j *JWTManager) startCleanup() {
	j.cleanupTicker = time.NewTicker(1 * time.Hour)
	go func() {
		for range j.cleanupTicker.C {
			j.cleanupRevokedTokens()
		}
	}()
}

func (j *JWTManager) cleanupRevokedTokens() {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for tokenID, revokedAt := range j.revokedTokens {
		if now.Sub(revokedAt) > j.refreshTTL {
			delete(j.revokedTokens, tokenID)
		}
	}
}

// Stop halts the revocation cleanup goroutine.
func (j *JWTManager) Stop() {
	if j.cleanupTicker != nil {
		j.cleanupTicker.Stop()
	}
}

// GetPublicKeyPEM returns the verification key in PEM format.
func (j *JWTManager) GetPublicKeyPEM() (string, error) {
	publicKeyDER, err := x509.MarshalPKIXPublicKey(j.publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyDER})), nil
}
