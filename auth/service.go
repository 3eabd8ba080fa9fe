package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/logger"
)

// AuthService routes authentication requests to registered providers.
type AuthService struct {
	providers map[string]AuthProvider
	log       logger.CtxLogger
}

func NewAuthService(log logger.CtxLogger) *AuthService {
	if log == nil {
		log = logger.GetLogger("auth")
	}
	return &AuthService{
		providers: make(map[string]AuthProvider),
		log:       log,
	}
}

func (s *AuthService) RegisterProvider(provider AuthProvider) {
	s.providers[provider.Name()] = provider
	s.log.InfoCtx(context.Background(), "auth provider registered",
		zap.String("provider", provider.Name()))
}

func (s *AuthService) Authenticate(ctx context.Context, providerName string, credentials Credentials) (*AuthResult, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, ErrProviderNotSupported
	}

	result, err := provider.Authenticate(ctx, credentials)
	if err != nil {
		s.log.WarnCtx(ctx, "authentication failed",
			zap.String("provider", providerName),
			zap.String("username", credentials.Username),
			zap.Error(err))
		return nil, err
	}

	s.log.InfoCtx(ctx, "authentication successful",
		zap.String("provider", providerName),
		zap.Int64("user_id", result.UserID),
		zap.String("username", result.Username))
	return result, nil
}

func (s *AuthService) Provider(name string) (AuthProvider, bool) {
	provider, ok := s.providers[name]
	return provider, ok
}
