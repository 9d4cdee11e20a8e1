package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ValidationError 请求参数不合法
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 引用的对象不存在
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// MissingRecipeError 菜品没有配方，无法展开用料
type MissingRecipeError struct {
	DishID   uint
	DishName string
}

func (e *MissingRecipeError) Error() string {
	return fmt.Sprintf("no recipe found for dish %s (id %d)", e.DishName, e.DishID)
}

// InsufficientStockError 食材库存不足
type InsufficientStockError struct {
	IngredientID uint
	Ingredient   string
	Unit         string
	Required     decimal.Decimal
	Available    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Required: %s, Available: %s",
		e.Ingredient, e.Required.String(), e.Available.String())
}

// ConnectivityError 存储不可达
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: storage unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// StorageError 其他存储层失败
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// classify 把仓库层错误归类；已是领域错误的原样返回
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ne *NotFoundError
		me *MissingRecipeError
		ie *InsufficientStockError
		ce *ConnectivityError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ne), errors.As(err, &me),
		errors.As(err, &ie), errors.As(err, &ce), errors.As(err, &se):
		return err
	case isConnectivity(err):
		return &ConnectivityError{Op: op, Err: err}
	default:
		return &StorageError{Op: op, Err: err}
	}
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	// 调用方取消的请求不是连接故障
	if errors.Is(err, context.Canceled) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
