package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/middleware"
	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret = "nimo-pos-test-secret"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated in-memory sqlite database with all POS tables migrated.
// The pool is pinned to one connection so every query sees the same memory database;
// concurrent transactions are serialized by the pool.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"roles": roles,
		"iss":   "nimo-pos",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Admin", []string{entity.RoleAdmin})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal, panicking on bad input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedIngredient creates an ingredient type
func SeedIngredient(t *testing.T, db *gorm.DB, name, unit, reorderLevel string) *entity.IngredientType {
	t.Helper()
	ing := &entity.IngredientType{Name: name, Unit: unit, ReorderLevel: Dec(reorderLevel)}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("Failed to seed ingredient: %v", err)
	}
	return ing
}

// SeedSupplier creates a supplier
func SeedSupplier(t *testing.T, db *gorm.DB, name string) *entity.Supplier {
	t.Helper()
	sup := &entity.Supplier{Name: name, Email: "orders@example.com"}
	if err := db.Create(sup).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return sup
}

// SeedEmployee creates an employee
func SeedEmployee(t *testing.T, db *gorm.DB, role, firstName, email string) *entity.Employee {
	t.Helper()
	e := &entity.Employee{Role: role, FirstName: firstName, LastName: "Test", Email: email}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return e
}

// SeedBatch creates a batch with remaining = received = qty
func SeedBatch(t *testing.T, db *gorm.DB, ingredientID, supplierID uint, qty string, expiry time.Time) *entity.Batch {
	t.Helper()
	b := &entity.Batch{
		IngredientID:      ingredientID,
		SupplierID:        supplierID,
		QuantityReceived:  Dec(qty),
		QuantityRemaining: Dec(qty),
		CostPerUnit:       Dec("1"),
		ReceivedDate:      Day(2026, time.January, 1),
		ExpiryDate:        expiry,
	}
	if err := db.Omit("Ingredient", "Supplier").Create(b).Error; err != nil {
		t.Fatalf("Failed to seed batch: %v", err)
	}
	return b
}

// SeedDish creates a dish with the given recipe (ingredient id -> quantity per portion)
func SeedDish(t *testing.T, db *gorm.DB, name, price string, recipe map[uint]string) *entity.Dish {
	t.Helper()
	d := &entity.Dish{Name: name, Price: Dec(price), Category: "Main"}
	if err := db.Omit("Recipe").Create(d).Error; err != nil {
		t.Fatalf("Failed to seed dish: %v", err)
	}
	for ingID, qty := range recipe {
		entry := &entity.RecipeEntry{DishID: d.ID, IngredientID: ingID, QuantityNeeded: Dec(qty)}
		if err := db.Omit("Ingredient").Create(entry).Error; err != nil {
			t.Fatalf("Failed to seed recipe entry: %v", err)
		}
	}
	return d
}

// RemainingOf reads a batch's current remaining quantity
func RemainingOf(t *testing.T, db *gorm.DB, batchID uint) decimal.Decimal {
	t.Helper()
	var b entity.Batch
	if err := db.First(&b, batchID).Error; err != nil {
		t.Fatalf("Failed to load batch %d: %v", batchID, err)
	}
	return b.QuantityRemaining
}

// CountRows counts rows of a model
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
