package crypto

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

// VaultClient reads secrets from a HashiCorp Vault KV v2 engine.
type VaultClient interface {
	ReadSecret(ctx context.Context, secretPath string) (map[string]interface{}, error)
}

type vaultClientImpl struct {
	client    *vault.Client
	log       logger.Logger
	mountPath string
}

// NewVaultClient creates and configures a new Vault client.
func NewVaultClient(cfg *config.VaultConfig, log logger.Logger) (VaultClient, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, errors.ErrInvalidConfig.WithMessage("failed to create vault client").WithError(err)
	}
	client.SetToken(cfg.Token)

	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}
	return &vaultClientImpl{
		client:    client,
		log:       log.WithComponent("vault"),
		mountPath: mount,
	}, nil
}

func (v *vaultClientImpl) ReadSecret(ctx context.Context, secretPath string) (map[string]interface{}, error) {
	secret, err := v.client.KVv2(v.mountPath).Get(ctx, secretPath)
	if err != nil {
		v.log.Warn(ctx, "Vault read failed", logger.String("mount", v.mountPath), logger.String("path", secretPath))
		return nil, errors.ErrInvalidConfig.WithMessage("failed to read vault secret").WithError(err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.ErrInvalidConfig.WithMessage(fmt.Sprintf("vault secret %s/%s is empty", v.mountPath, secretPath))
	}
	return secret.Data, nil
}

// LoadSigningSecret reads the JWT signing secret from cfg.SecretKey of the secret at cfg.SecretPath.
func LoadSigningSecret(ctx context.Context, client VaultClient, cfg *config.VaultConfig) (string, error) {
	data, err := client.ReadSecret(ctx, cfg.SecretPath)
	if err != nil {
		return "", err
	}
	raw, ok := data[cfg.SecretKey]
	if !ok {
		return "", errors.ErrInvalidConfig.WithMessage(fmt.Sprintf("vault secret has no %q field", cfg.SecretKey))
	}
	secret, ok := raw.(string)
	if !ok || secret == "" {
		return "", errors.ErrInvalidConfig.WithMessage(fmt.Sprintf("vault field %q is not a non-empty string", cfg.SecretKey))
	}
	return secret, nil
}

// ResolveSigningSecret fills cfg.JWT.Secret from Vault when Vault is enabled and then checks
// that a secret is present. newClient may be nil to use NewVaultClient.
func ResolveSigningSecret(ctx context.Context, cfg *config.Config, log logger.Logger, newClient func(*config.VaultConfig, logger.Logger) (VaultClient, error)) error {
	if cfg.Vault.Enabled {
		if newClient == nil {
			newClient = NewVaultClient
		}
		client, err := newClient(&cfg.Vault, log)
		if err != nil {
			return err
		}
		secret, err := LoadSigningSecret(ctx, client, &cfg.Vault)
		if err != nil {
			return err
		}
		cfg.JWT.Secret = secret
		log.Info(ctx, "JWT signing secret loaded from Vault", logger.String("path", cfg.Vault.SecretPath))
	}

	if err := cfg.ValidateSigningSecret(); err != nil {
		return errors.ErrInvalidConfig.WithMessage("jwt signing secret is not configured").WithError(err)
	}
	return nil
}

//Personal.AI order the ending
