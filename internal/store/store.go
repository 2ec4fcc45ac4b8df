// Package store is the generic record store the repositories are written
// against: insert/select/update/delete by table and filter.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

const (
	TableSocialAccounts = "social_accounts"
	TableBusinesses     = "businesses"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUnfilteredWrite = errors.New("update and delete require a filter")
	ErrInvalidColumn   = errors.New("invalid column name")
)

// Record maps column names to values.
type Record map[string]interface{}

type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpIs  Op = "is"
)

type Condition struct {
	Column string
	Op     Op
	Value  interface{}
}

type Filter []Condition

func Eq(column string, value interface{}) Condition  { return Condition{column, OpEq, value} }
func Neq(column string, value interface{}) Condition { return Condition{column, OpNeq, value} }
func Lt(column string, value interface{}) Condition  { return Condition{column, OpLt, value} }
func Lte(column string, value interface{}) Condition { return Condition{column, OpLte, value} }
func Gt(column string, value interface{}) Condition  { return Condition{column, OpGt, value} }
func Gte(column string, value interface{}) Condition { return Condition{column, OpGte, value} }
func IsNull(column string) Condition                 { return Condition{column, OpIs, nil} }

type RecordStore interface {
	// Insert writes rec and returns the generated id.
	Insert(ctx context.Context, table string, rec Record) (string, error)
	// Select decodes every matching row into dest, a pointer to a slice.
	Select(ctx context.Context, table string, filter Filter, dest interface{}) error
	Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
}

// Error is returned for a failure reported by the backing database service.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("store: %s (status %d)", e.Message, e.StatusCode)
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validIdentifier(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, name)
	}
	return nil
}

func (f Filter) validate() error {
	for _, c := range f {
		if err := validIdentifier(c.Column); err != nil {
			return err
		}
		switch c.Op {
		case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		case OpIs:
			if c.Value != nil {
				return fmt.Errorf("store: %s only supports null", OpIs)
			}
		default:
			return fmt.Errorf("store: unsupported operator %q", c.Op)
		}
	}
	return nil
}
