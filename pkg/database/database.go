package database

import (
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCurriculum(db)

	return db, nil
}

// Migrate runs the schema migration for every persisted model. Tests call
// it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Section{},
		&model.Quiz{},
		&model.Enrollment{},
		&model.SectionProgress{},
		&model.QuizResponse{},
		&model.Feedback{},
		&model.ChatMessage{},
	)
}

// seedCurriculum inserts the built-in course catalog on first boot.
func seedCurriculum(db *gorm.DB) {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return
	}

	courses := []model.Course{
		{
			Slug:        "bitcoin-fundamentals",
			Title:       "Bitcoin Fundamentals",
			Description: "What money is, how Bitcoin works, wallets, keys and the security model.",
			Level:       "beginner",
			Modules: []model.CourseModule{
				{
					Number: 1,
					Title:  "Understanding Bitcoin",
					Sections: []model.Section{
						{Slug: "what-is-bitcoin", Title: "What is Bitcoin?", Kind: model.SectionTopic, Order: 1},
						{Slug: "how-transactions-work", Title: "How Transactions Work", Kind: model.SectionTopic, Order: 2},
						{Slug: "mining-and-consensus", Title: "Mining and Consensus", Kind: model.SectionTopic, Order: 3},
						{Slug: "bitcoin-quiz", Title: "Bitcoin Quiz", Kind: model.SectionQuiz, Order: 4},
					},
				},
				{
					Number: 2,
					Title:  "Wallets and Keys",
					Sections: []model.Section{
						{Slug: "seed-phrases", Title: "Seed Phrases", Kind: model.SectionTopic, Order: 1},
						{Slug: "custody-models", Title: "Custody Models", Kind: model.SectionTopic, Order: 2},
						{Slug: "wallets-quiz", Title: "Wallets Quiz", Kind: model.SectionQuiz, Order: 3},
					},
				},
			},
		},
		{
			Slug:        "ethereum-smart-contracts",
			Title:       "Ethereum & Smart Contracts",
			Description: "Accounts, gas, the EVM and what a smart contract actually does.",
			Level:       "intermediate",
			Modules: []model.CourseModule{
				{
					Number: 3,
					Title:  "Ethereum Basics",
					Sections: []model.Section{
						{Slug: "accounts-and-gas", Title: "Accounts and Gas", Kind: model.SectionTopic, Order: 1},
						{Slug: "smart-contracts", Title: "Smart Contracts", Kind: model.SectionTopic, Order: 2},
						{Slug: "ethereum-quiz", Title: "Ethereum Quiz", Kind: model.SectionQuiz, Order: 3},
					},
				},
			},
		},
		{
			Slug:        "defi-deep-dive",
			Title:       "DeFi Deep Dive",
			Description: "DEXes, lending markets, stablecoins and the risks behind the yields.",
			Level:       "advanced",
			Modules: []model.CourseModule{
				{
					Number: 4,
					Title:  "Decentralized Finance",
					Sections: []model.Section{
						{Slug: "dex-and-amms", Title: "DEXes and AMMs", Kind: model.SectionTopic, Order: 1},
						{Slug: "lending-protocols", Title: "Lending Protocols", Kind: model.SectionTopic, Order: 2},
						{Slug: "stablecoins", Title: "Stablecoins", Kind: model.SectionTopic, Order: 3},
						{Slug: "defi-quiz", Title: "DeFi Quiz", Kind: model.SectionQuiz, Order: 4},
					},
				},
			},
		},
	}

	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			log.Printf("seed: failed to create course %s: %v", courses[i].Slug, err)
		}
	}

	quizzes := []model.Quiz{
		{CourseID: courses[0].ID, ModuleID: 1, Slug: "bitcoin-quiz", Title: "Bitcoin Quiz", PassThreshold: 60},
		{CourseID: courses[0].ID, ModuleID: 2, Slug: "wallets-quiz", Title: "Wallets Quiz", PassThreshold: 60},
		{CourseID: courses[1].ID, ModuleID: 3, Slug: "ethereum-quiz", Title: "Ethereum Quiz", PassThreshold: 70},
		{CourseID: courses[2].ID, ModuleID: 4, Slug: "defi-quiz", Title: "DeFi Quiz", PassThreshold: 70},
	}
	for i := range quizzes {
		if err := db.Create(&quizzes[i]).Error; err != nil {
			log.Printf("seed: failed to create quiz %s: %v", quizzes[i].Slug, err)
		}
	}
}
