// Package ordering turns a declarative sort specification into gorm ORDER BY clauses.
package ordering

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ErrInvalidOrder ถูก wrap โดยทุก error ของ package นี้
var ErrInvalidOrder = errors.New("invalid order")

// Item is a single sort key. An empty Direction sorts ascending.
type Item struct {
	Field     string
	Direction Direction
}

// Order lists sort keys by priority: the first item is the primary sort,
// the rest break ties in the listed order.
type Order []Item

// By builds an ascending single-field order.
func By(field string) Order {
	return Order{{Field: field, Direction: Asc}}
}

// ByDesc builds a descending single-field order.
func ByDesc(field string) Order {
	return Order{{Field: field, Direction: Desc}}
}

// Then appends another sort key.
func (o Order) Then(field string, dir Direction) Order {
	return append(o, Item{Field: field, Direction: dir})
}

type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown order field %q", e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrInvalidOrder
}

// ParseDirection accepts asc/desc in any case. Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: direction %q", ErrInvalidOrder, s)
	}
}

// Parse reads "field", "field:desc" or a comma separated list of either.
// A leading "-" on a field is shorthand for descending.
func Parse(s string) (Order, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var order Order
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty item in %q", ErrInvalidOrder, s)
		}

		field, rawDir, _ := strings.Cut(part, ":")
		dir, err := ParseDirection(rawDir)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(field, "-") {
			if rawDir != "" {
				return nil, fmt.Errorf("%w: %q mixes '-' and a direction", ErrInvalidOrder, part)
			}
			field = strings.TrimPrefix(field, "-")
			dir = Desc
		}
		if field == "" {
			return nil, fmt.Errorf("%w: empty field in %q", ErrInvalidOrder, s)
		}
		order = append(order, Item{Field: field, Direction: dir})
	}
	return order, nil
}

var schemaCache sync.Map

// Apply validates each field against the gorm schema of model and appends
// "alias.column" ORDER BY clauses to db. An empty order returns db unchanged.
func Apply(db *gorm.DB, model any, alias string, order Order) (*gorm.DB, error) {
	if len(order) == 0 {
		return db, nil
	}

	s, err := schema.Parse(model, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema for ordering: %w", err)
	}

	columns := make([]clause.OrderByColumn, 0, len(order))
	for _, item := range order {
		field := lookupField(db, s, item.Field)
		if field == nil || field.DBName == "" {
			return nil, &UnknownFieldError{Field: item.Field}
		}
		dir := item.Direction
		if dir == "" {
			dir = Asc
		}
		if dir != Asc && dir != Desc {
			return nil, fmt.Errorf("%w: direction %q", ErrInvalidOrder, item.Direction)
		}
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Table: alias, Name: field.DBName},
			Desc:   dir == Desc,
		})
	}

	return db.Clauses(clause.OrderBy{Columns: columns}), nil
}

// lookupField matches a Go field name, a column name or a camelCase API name.
func lookupField(db *gorm.DB, s *schema.Schema, name string) *schema.Field {
	if f := s.LookUpField(name); f != nil {
		return f
	}
	return s.LookUpField(db.NamingStrategy.ColumnName("", name))
}
