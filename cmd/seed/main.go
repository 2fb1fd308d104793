// Command seed populates the database with reference data: currencies,
// expense categories and accounts. Safe to run repeatedly; existing
// rows are skipped.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
	"github.com/AlekseiCherkes/spending-tracker/internal/logging"
	"github.com/AlekseiCherkes/spending-tracker/internal/storage"
)

var currencies = []string{"EUR", "USD", "BYN"}

var categories = []string{
	"Продукты и хозтовары",
	"Еда вне дома",
	"Кофе и вкусняшки",
	"Развлечения и отдых",
	"Одежда",
	"Здоровье и медицина",
	"Спорт, забота о себе",
	"Образование",
	"Путешествия, туризм",
	"Дети (образование)",
	"Дети (хобби)",
	"Дети (присмотр)",
	"Интернет подписки",
	"Транспорт",
	"Автомобиль",
	"Автомобиль (аренда)",
	"Автомобиль (бензин, паркинг)",
	"Жильё",
	"Жильё (обустройство)",
	"Другое",
}

type seedAccount struct {
	name     string
	iban     string
	currency string
}

var accounts = []seedAccount{
	{name: "Revolut (Joint)", iban: "LT41 3250 0685 7871 5897", currency: "EUR"},
	{name: "Nordea (Spending)", iban: "FI90 1432 3500 6670 50", currency: "EUR"},
	{name: "S-pankki", iban: "FI90 1432 3500 6670 50", currency: "EUR"},
}

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", os.Getenv("SQLITE_DB_PATH"), "path to the SQLite database")
	flag.Parse()

	logger := logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if *dbPath == "" {
		*dbPath = "./data/spending-tracker.db"
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	for _, code := range currencies {
		if _, err := repo.GetCurrencyByCode(ctx, code); err == nil {
			logger.Info("currency exists, skipping", "code", code)
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			logger.Error("lookup currency failed", "error", err, "code", code)
			os.Exit(1)
		}
		id, err := repo.CreateCurrency(ctx, code)
		if err != nil {
			logger.Error("create currency failed", "error", err, "code", code)
			os.Exit(1)
		}
		logger.Info("currency created", "code", code, "id", id)
	}

	for i, name := range categories {
		if _, err := repo.GetCategoryByName(ctx, name); err == nil {
			logger.Info("category exists, skipping", "name", name)
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			logger.Error("lookup category failed", "error", err, "name", name)
			os.Exit(1)
		}
		id, err := repo.CreateCategory(ctx, name, int64(i))
		if err != nil {
			logger.Error("create category failed", "error", err, "name", name)
			os.Exit(1)
		}
		logger.Info("category created", "name", name, "sort_order", i, "id", id)
	}

	existing, err := repo.ListAccounts(ctx)
	if err != nil {
		logger.Error("list accounts failed", "error", err)
		os.Exit(1)
	}
	haveAccount := make(map[string]bool, len(existing))
	for _, a := range existing {
		haveAccount[a.Name] = true
	}

	for _, a := range accounts {
		if haveAccount[a.name] {
			logger.Info("account exists, skipping", "name", a.name)
			continue
		}
		currency, err := repo.GetCurrencyByCode(ctx, a.currency)
		if err != nil {
			logger.Error("lookup account currency failed", "error", err, "code", a.currency)
			os.Exit(1)
		}
		iban := a.iban
		id, err := repo.CreateAccount(ctx, currency.ID, a.name, &iban)
		if err != nil {
			logger.Error("create account failed", "error", err, "name", a.name)
			os.Exit(1)
		}
		logger.Info("account created", "name", a.name, "currency", a.currency, "id", id)
	}

	logger.Info("seeding complete")
}
