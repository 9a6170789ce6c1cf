package app

import (
	"fmt"

	schoolHTTP "github.com/rahats/school/internal/school/http"
	schoolRepository "github.com/rahats/school/internal/school/repository"
	schoolUseCase "github.com/rahats/school/internal/school/usecase"
)

// GradeRepository returns the grade repository based on database driver.
func (c *Container) GradeRepository() (schoolUseCase.GradeRepository, error) {
	var err error
	c.gradeRepositoryInit.Do(func() {
		c.gradeRepository, err = c.initGradeRepository()
		if err != nil {
			c.initErrors["gradeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gradeRepository"]; exists {
		return nil, storedErr
	}
	return c.gradeRepository, nil
}

// MaterialRepository returns the material repository based on database driver.
func (c *Container) MaterialRepository() (schoolUseCase.MaterialRepository, error) {
	var err error
	c.materialRepositoryInit.Do(func() {
		c.materialRepository, err = c.initMaterialRepository()
		if err != nil {
			c.initErrors["materialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["materialRepository"]; exists {
		return nil, storedErr
	}
	return c.materialRepository, nil
}

// SchoolUseCase returns the student and teacher panel use case.
func (c *Container) SchoolUseCase() (schoolUseCase.SchoolUseCase, error) {
	var err error
	c.schoolUseCaseInit.Do(func() {
		c.schoolUseCase, err = c.initSchoolUseCase()
		if err != nil {
			c.initErrors["schoolUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["schoolUseCase"]; exists {
		return nil, storedErr
	}
	return c.schoolUseCase, nil
}

// SchoolHandler returns the HTTP handler for the panel endpoints.
func (c *Container) SchoolHandler() (*schoolHTTP.SchoolHandler, error) {
	var err error
	c.schoolHandlerInit.Do(func() {
		c.schoolHandler, err = c.initSchoolHandler()
		if err != nil {
			c.initErrors["schoolHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["schoolHandler"]; exists {
		return nil, storedErr
	}
	return c.schoolHandler, nil
}

func (c *Container) initGradeRepository() (schoolUseCase.GradeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grade repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return schoolRepository.NewPostgreSQLGradeRepository(db), nil
	case "mysql":
		return schoolRepository.NewMySQLGradeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initMaterialRepository() (schoolUseCase.MaterialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for material repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return schoolRepository.NewPostgreSQLMaterialRepository(db), nil
	case "mysql":
		return schoolRepository.NewMySQLMaterialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initSchoolUseCase() (schoolUseCase.SchoolUseCase, error) {
	gradeRepo, err := c.GradeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grade repository for school use case: %w", err)
	}

	materialRepo, err := c.MaterialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get material repository for school use case: %w", err)
	}

	baseUseCase := schoolUseCase.NewSchoolUseCase(gradeRepo, materialRepo, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for school use case: %w", err)
		}
		return schoolUseCase.NewSchoolUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSchoolHandler() (*schoolHTTP.SchoolHandler, error) {
	useCase, err := c.SchoolUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get school use case for school handler: %w", err)
	}
	return schoolHTTP.NewSchoolHandler(useCase, c.Logger()), nil
}
