package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/clean-api/internal/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Column describes one non-key column of a table.
type Column struct {
	// Name is the column name used in SQL.
	Name string
	// Field is the name reported in validation errors; it matches the JSON field.
	Field string
	// Required rejects nil and empty values.
	Required bool
	// MaxLength caps the value length in characters. Zero means unbounded.
	MaxLength int
}

func (c Column) rules() string {
	var rules []string
	if c.Required {
		rules = append(rules, "required")
	} else {
		rules = append(rules, "omitempty")
	}
	if c.MaxLength > 0 {
		rules = append(rules, "max="+strconv.Itoa(c.MaxLength))
	}
	return strings.Join(rules, ",")
}

func (c Column) message(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %d characters", c.MaxLength)
	default:
		return "is invalid"
	}
}

// Table maps an entity onto a relational table.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []Column
}

// ColumnNames returns the non-key column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ErrorCode is the code attached to validation failures, e.g. USUARIO_INVALID.
func (t Table) ErrorCode() string {
	return strings.ToUpper(strings.TrimSuffix(t.Name, "s")) + "_INVALID"
}

// Validate checks values, given in Columns order, against the column
// constraints. Every failing column is reported, not just the first.
func (t Table) Validate(values []any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("table %s: got %d values for %d columns", t.Name, len(values), len(t.Columns))
	}

	var fieldErrors []errs.FieldError
	for i, column := range t.Columns {
		err := validate.Var(values[i], column.rules())
		if err == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
			return fmt.Errorf("table %s: validating %s: %w", t.Name, column.Name, err)
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: column.Field,
			Error: column.message(validationErrors[0].Tag()),
		})
	}

	if len(fieldErrors) > 0 {
		return errs.NewFieldValidationError(t.ErrorCode(), fieldErrors)
	}
	return nil
}

// Configuration registers one entity's table with a Schema.
type Configuration func(*Schema) error

// Schema holds every mapped table, keyed by name. It is built once at
// startup and only read afterwards.
type Schema struct {
	tables map[string]Table
}

// NewSchema applies configurations in order.
func NewSchema(configurations ...Configuration) (*Schema, error) {
	s := &Schema{tables: make(map[string]Table)}
	for _, configure := range configurations {
		if err := configure(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a table to the schema.
func (s *Schema) Register(t Table) error {
	if t.Name == "" {
		return errors.New("table name is required")
	}
	if t.PrimaryKey == "" {
		return fmt.Errorf("table %s: primary key is required", t.Name)
	}
	if _, exists := s.tables[t.Name]; exists {
		return fmt.Errorf("table %s is already registered", t.Name)
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" || c.Name == t.PrimaryKey {
			return fmt.Errorf("table %s: invalid column %q", t.Name, c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("table %s: duplicate column %s", t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	s.tables[t.Name] = t
	return nil
}

// Table looks up a registered table.
func (s *Schema) Table(name string) (Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}
