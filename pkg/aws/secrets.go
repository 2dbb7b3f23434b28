package aws

import (
	"context"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient reads secrets from AWS Secrets Manager and memoizes them for
// the process lifetime. Services only fetch credentials at startup, so there
// is no invalidation.
type SecretsClient struct {
	sm    *secretsmanager.Client
	mu    sync.Mutex
	cache map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		sm:    secretsmanager.NewFromConfig(cfg),
		cache: make(map[string]string),
	}
}

// GetSecret returns the string value of the named secret.
func (c *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	cached, ok := c.cache[name]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	out, err := c.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	c.mu.Lock()
	c.cache[name] = *out.SecretString
	c.mu.Unlock()
	return *out.SecretString, nil
}
