// Package secrets reads and caches values from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// signingKeyField is the JSON field of the feedback secret holding the key material
const signingKeyField = "signingKey"

// SecretsManagerAPI is the slice of the Secrets Manager client the manager needs
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type cachedSecret struct {
	value     map[string]string
	expiresAt time.Time
}

// Manager handles Secrets Manager reads with a process-lifetime TTL cache,
// safe for reuse across invocations.
type Manager struct {
	client    SecretsManagerAPI
	logger    *slog.Logger
	cacheLock sync.RWMutex
	cache     map[string]*cachedSecret
	cacheTTL  time.Duration
}

// NewManager creates a new secrets manager with caching
func NewManager(client SecretsManagerAPI, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		client:   client,
		logger:   logger,
		cache:    make(map[string]*cachedSecret),
		cacheTTL: 5 * time.Minute,
	}
}

// GetSecret retrieves a JSON secret as a string map, from cache when fresh
func (m *Manager) GetSecret(ctx context.Context, secretName string) (map[string]string, error) {
	if cached := m.getFromCache(secretName); cached != nil {
		return cached.value, nil
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}

	result, err := m.client.GetSecretValue(ctx, input)
	if err != nil {
		// Secret names stay out of the logs.
		m.logger.ErrorContext(ctx, "failed to retrieve secret", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve secret: %w", err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret has no string value")
	}

	var value map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &value); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	m.putInCache(secretName, value)
	return value, nil
}

// GetSigningKey retrieves the feedback token signing key from a secret
func (m *Manager) GetSigningKey(ctx context.Context, secretName string) ([]byte, error) {
	value, err := m.GetSecret(ctx, secretName)
	if err != nil {
		return nil, err
	}

	key := value[signingKeyField]
	if key == "" {
		return nil, fmt.Errorf("secret missing required field %s", signingKeyField)
	}

	return []byte(key), nil
}

func (m *Manager) getFromCache(secretName string) *cachedSecret {
	m.cacheLock.RLock()
	defer m.cacheLock.RUnlock()

	cached, exists := m.cache[secretName]
	if !exists || time.Now().After(cached.expiresAt) {
		return nil
	}
	return cached
}

func (m *Manager) putInCache(secretName string, value map[string]string) {
	m.cacheLock.Lock()
	defer m.cacheLock.Unlock()

	m.cache[secretName] = &cachedSecret{
		value:     value,
		expiresAt: time.Now().Add(m.cacheTTL),
	}
}
