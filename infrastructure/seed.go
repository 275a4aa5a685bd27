package infrastructure

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

//go:embed seed/roles.yaml
var defaultSeed []byte

type seedFile struct {
	Roles []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Stages      []string `yaml:"stages"`
	} `yaml:"roles"`
}

// SeedRoles inserts the roles and stage pipelines from raw YAML when the
// roles table is empty. It returns the number of roles created.
func SeedRoles(db *gorm.DB, raw []byte) (int, error) {
	var count int64
	if err := db.Model(&domain.Role{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range file.Roles {
			role := domain.Role{Name: r.Name, IsActive: true}
			if r.Description != "" {
				desc := r.Description
				role.Description = &desc
			}
			if err := tx.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %q: %w", r.Name, err)
			}
			for i, name := range r.Stages {
				stage := domain.Stage{Name: name, RoleID: role.ID, Sequence: i + 1, IsActive: true}
				if err := tx.Create(&stage).Error; err != nil {
					return fmt.Errorf("failed to seed stage %q: %w", name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(file.Roles), nil
}

// SeedDefaults seeds the embedded fixture.
func SeedDefaults(db *gorm.DB) (int, error) {
	return SeedRoles(db, defaultSeed)
}
