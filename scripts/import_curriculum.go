// Manual curriculum import.
//
// The built-in catalog is seeded automatically on first boot. This script
// loads additional courses from a YAML file, for example when content
// authors deliver a new course outside a release.
//
// Usage: go run scripts/import_curriculum.go curriculum.yaml

package main

import (
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/pkg/database"
	"crypto_edu_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type curriculumFile struct {
	Courses []struct {
		Slug        string `yaml:"slug"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Level       string `yaml:"level"`
		Modules     []struct {
			Number   uint   `yaml:"number"`
			Title    string `yaml:"title"`
			Sections []struct {
				Slug  string `yaml:"slug"`
				Title string `yaml:"title"`
				Kind  string `yaml:"kind"`
				Order int    `yaml:"order"`
			} `yaml:"sections"`
		} `yaml:"modules"`
		Quizzes []struct {
			ModuleNumber  uint    `yaml:"moduleNumber"`
			Slug          string  `yaml:"slug"`
			Title         string  `yaml:"title"`
			PassThreshold float64 `yaml:"passThreshold"`
		} `yaml:"quizzes"`
	} `yaml:"courses"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/import_curriculum.go <curriculum.yaml>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("cannot read curriculum file: %v", err)
	}

	var file curriculumFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Fatalf("cannot parse curriculum file: %v", err)
	}

	for _, c := range file.Courses {
		course := model.Course{
			Slug:        c.Slug,
			Title:       c.Title,
			Description: c.Description,
			Level:       c.Level,
		}
		for _, m := range c.Modules {
			module := model.CourseModule{
				Number: m.Number,
				Title:  m.Title,
			}
			for _, s := range m.Sections {
				module.Sections = append(module.Sections, model.Section{
					Slug:  s.Slug,
					Title: s.Title,
					Kind:  model.SectionKind(s.Kind),
					Order: s.Order,
				})
			}
			course.Modules = append(course.Modules, module)
		}

		if err := db.Create(&course).Error; err != nil {
			log.Fatalf("failed to import course %s: %v", c.Slug, err)
		}

		for _, q := range c.Quizzes {
			quiz := model.Quiz{
				CourseID:      course.ID,
				ModuleID:      q.ModuleNumber,
				Slug:          q.Slug,
				Title:         q.Title,
				PassThreshold: q.PassThreshold,
			}
			if err := db.Create(&quiz).Error; err != nil {
				log.Fatalf("failed to import quiz %s: %v", q.Slug, err)
			}
		}

		log.Printf("imported course %s", c.Slug)
	}

	log.Println("done")
}
