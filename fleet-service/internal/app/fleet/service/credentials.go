package service

import (
	"context"
	"errors"
	"fmt"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/repository"
	"fleetcare/fleet-service/internal/app/fleet/util"
)

// StaticAccount - учётная запись из статического списка конфигурации
type StaticAccount struct {
	Username string
	Secret   string
	Role     entity.Role
}

// StaticCredentialValidator проверяет учётные данные по фиксированному списку
type StaticCredentialValidator struct {
	accounts []StaticAccount
}

func NewStaticCredentialValidator(accounts ...StaticAccount) *StaticCredentialValidator {
	return &StaticCredentialValidator{accounts: accounts}
}

func (v *StaticCredentialValidator) Validate(_ context.Context, identifier, secret string) (*entity.Identity, error) {
	var matched *StaticAccount
	// Проходим весь список, чтобы время ответа не зависело от позиции записи
	for i := range v.accounts {
		account := &v.accounts[i]
		if util.SecretsEqual(account.Username, identifier) && util.SecretsEqual(account.Secret, secret) && matched == nil {
			matched = account
		}
	}

	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	return &entity.Identity{
		Subject: matched.Username,
		Name:    matched.Username,
		Role:    matched.Role,
	}, nil
}

// UserStoreCredentialValidator ищет пользователя по email и сверяет bcrypt-хеш
type UserStoreCredentialValidator struct {
	userRepo repository.UserRepository
}

func NewUserStoreCredentialValidator(userRepo repository.UserRepository) *UserStoreCredentialValidator {
	return &UserStoreCredentialValidator{userRepo: userRepo}
}

func (v *UserStoreCredentialValidator) Validate(ctx context.Context, identifier, secret string) (*entity.Identity, error) {
	user, err := v.userRepo.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsCancel || !util.CheckPassword(secret, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &entity.Identity{
		Subject: user.Email,
		Name:    user.Email,
		Role:    user.Type,
		UserID:  user.ID,
	}, nil
}

// ChainCredentialValidator опрашивает валидаторы по порядку до первого совпадения
type ChainCredentialValidator struct {
	validators []CredentialValidator
}

func NewChainCredentialValidator(validators ...CredentialValidator) *ChainCredentialValidator {
	return &ChainCredentialValidator{validators: validators}
}

func (c *ChainCredentialValidator) Validate(ctx context.Context, identifier, secret string) (*entity.Identity, error) {
	for _, v := range c.validators {
		identity, err := v.Validate(ctx, identifier, secret)
		if err == nil {
			return identity, nil
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
	}
	return nil, ErrInvalidCredentials
}
