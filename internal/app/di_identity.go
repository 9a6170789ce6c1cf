package app

import (
	"fmt"

	identityHTTP "github.com/rahats/school/internal/identity/http"
	identityRepository "github.com/rahats/school/internal/identity/repository"
	identityService "github.com/rahats/school/internal/identity/service"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
)

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() identityService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = identityService.NewPasswordService()
	})
	return c.passwordService
}

// SessionService returns the session token service.
func (c *Container) SessionService() (identityService.SessionService, error) {
	var err error
	c.sessionServiceInit.Do(func() {
		c.sessionService, err = c.initSessionService()
		if err != nil {
			c.initErrors["sessionService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionService"]; exists {
		return nil, storedErr
	}
	return c.sessionService, nil
}

// IdentityRepository returns the student/teacher repository based on database driver.
func (c *Container) IdentityRepository() (identityUseCase.IdentityRepository, error) {
	var err error
	c.identityRepositoryInit.Do(func() {
		c.identityRepository, err = c.initIdentityRepository()
		if err != nil {
			c.initErrors["identityRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityRepository"]; exists {
		return nil, storedErr
	}
	return c.identityRepository, nil
}

// RevokedSessionRepository returns the session denylist repository based on database driver.
func (c *Container) RevokedSessionRepository() (identityUseCase.RevokedSessionRepository, error) {
	var err error
	c.revokedRepositoryInit.Do(func() {
		c.revokedRepository, err = c.initRevokedSessionRepository()
		if err != nil {
			c.initErrors["revokedRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revokedRepository"]; exists {
		return nil, storedErr
	}
	return c.revokedRepository, nil
}

// AuthUseCase returns the login and session use case.
func (c *Container) AuthUseCase() (identityUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// IdentityUseCase returns the administrative identity use case.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.initErrors["identityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

// AuthHandler returns the HTTP handler for the auth endpoints.
func (c *Container) AuthHandler() (*identityHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

func (c *Container) initSessionService() (identityService.SessionService, error) {
	secrets, err := c.Secrets()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets for session service: %w", err)
	}

	var opts []identityService.SessionOption
	if c.config.SessionRevocationEnabled {
		revokedRepository, err := c.RevokedSessionRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get revoked session repository for session service: %w", err)
		}
		opts = append(opts, identityService.WithRevocationChecker(revokedRepository))
	}

	sessionService, err := identityService.NewSessionService(secrets.SessionSigningKey, c.config.SessionTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}
	return sessionService, nil
}

func (c *Container) initIdentityRepository() (identityUseCase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRevokedSessionRepository() (identityUseCase.RevokedSessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for revoked session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLRevokedSessionRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLRevokedSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuthUseCase() (identityUseCase.AuthUseCase, error) {
	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for auth use case: %w", err)
	}

	revokedRepo, err := c.RevokedSessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get revoked session repository for auth use case: %w", err)
	}

	hasher, err := c.IdentifierHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get identifier hasher for auth use case: %w", err)
	}

	cipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for auth use case: %w", err)
	}

	sessionService, err := c.SessionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get session service for auth use case: %w", err)
	}

	baseUseCase := identityUseCase.NewAuthUseCase(
		identityRepo,
		revokedRepo,
		hasher,
		cipher,
		c.PasswordService(),
		sessionService,
		identityUseCase.NewLoginThrottle(c.config.LoginMaxAttempts, c.config.LoginAttemptWindow),
		c.config.SessionRevocationEnabled,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return identityUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initIdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for identity use case: %w", err)
	}

	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for identity use case: %w", err)
	}

	hasher, err := c.IdentifierHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get identifier hasher for identity use case: %w", err)
	}

	cipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for identity use case: %w", err)
	}

	return identityUseCase.NewIdentityUseCase(
		txManager,
		identityRepo,
		hasher,
		cipher,
		c.PasswordService(),
		c.Logger(),
	), nil
}

func (c *Container) initAuthHandler() (*identityHTTP.AuthHandler, error) {
	authUseCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}
	return identityHTTP.NewAuthHandler(authUseCase, c.Logger()), nil
}
