// Package testutil opens throwaway SQLite stores for repository and
// service tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/clause"
)

var dbSeq atomic.Int64

// DB returns a migrated in-memory database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixtures seeds rows directly, bypassing services.
type Fixtures struct {
	tb testing.TB
	db *gorm.DB
}

func NewFixtures(tb testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{tb: tb, db: db}
}

func (f *Fixtures) create(v interface{}) {
	f.tb.Helper()
	if err := f.db.WithContext(context.Background()).Omit(clause.Associations).Create(v).Error; err != nil {
		f.tb.Fatalf("seed %T: %v", v, err)
	}
}

func (f *Fixtures) User(username string, staff bool) models.User {
	f.tb.Helper()
	u := models.User{Username: username, Password: "x", IsStaff: staff, IsActive: true}
	f.create(&u)
	return u
}

func (f *Fixtures) Measure(name string) models.Measure {
	f.tb.Helper()
	m := models.Measure{Name: name}
	f.create(&m)
	return m
}

func (f *Fixtures) Category(name string) models.RecipeCategory {
	f.tb.Helper()
	c := models.RecipeCategory{Name: name}
	f.create(&c)
	return c
}

func (f *Fixtures) Ingredient(name string) models.Ingredient {
	f.tb.Helper()
	i := models.Ingredient{Name: name}
	f.create(&i)
	return i
}

// Recipe creates a recipe owned by author with one line per ingredient id.
func (f *Fixtures) Recipe(name string, author models.User, category models.RecipeCategory, measure models.Measure, ingredientIDs ...int64) models.Recipe {
	f.tb.Helper()
	r := models.Recipe{Name: name, AuthorID: author.ID, RecipeCategoryID: category.ID}
	f.create(&r)
	for _, id := range ingredientIDs {
		f.Line(r, author, id, measure)
	}
	return r
}

func (f *Fixtures) Line(r models.Recipe, author models.User, ingredientID int64, measure models.Measure) models.RecipeIngredient {
	f.tb.Helper()
	line := models.RecipeIngredient{
		AuthorID:     author.ID,
		RecipeID:     r.ID,
		IngredientID: ingredientID,
		MeasureID:    measure.ID,
		Amount:       1,
	}
	f.create(&line)
	return line
}
