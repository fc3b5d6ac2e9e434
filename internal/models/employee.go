package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// emailPattern matches the address shape enforced across both collections.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const (
	maxNameLength     = 50
	maxPositionLength = 100
)

// Employee is the persisted employee record.
type Employee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	FirstName  string             `bson:"firstName"`
	LastName   string             `bson:"lastName"`
	Email      string             `bson:"email"`
	Position   string             `bson:"position"`
	Department string             `bson:"department"`
	Salary     float64            `bson:"salary"`
	HireDate   time.Time          `bson:"hireDate"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

// PublicEmployee is the response projection: identifier plus business fields,
// no timestamps.
type PublicEmployee struct {
	ID         string  `json:"employee_id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hireDate"`
}

func (e Employee) Public() PublicEmployee {
	return PublicEmployee{
		ID:         e.ID.Hex(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HireDate:   e.HireDate.UTC().Format(time.RFC3339),
	}
}

// EmployeeInput carries request fields. Pointers distinguish "absent" from
// "zero" so the same type serves create and partial update.
type EmployeeInput struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Email      *string  `json:"email"`
	Position   *string  `json:"position"`
	Department *string  `json:"department"`
	Salary     *float64 `json:"salary"`
	HireDate   *string  `json:"hireDate"`
}

// ValidateNew enforces the rules only visible on the input itself. Salary is
// required but zero is a legal value, so a missing salary field can only be
// caught before Apply flattens it onto the record.
func (in EmployeeInput) ValidateNew() error {
	if in.Salary == nil {
		return &ValidationError{Field: "salary", Message: "Salary is required"}
	}
	return nil
}

// Apply copies the supplied fields onto the record, trimming and lower-casing
// per the storage rules. Absent fields are left unchanged.
func (in EmployeeInput) Apply(e *Employee) error {
	if in.FirstName != nil {
		e.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		e.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		e.Email = NormalizeEmail(*in.Email)
	}
	if in.Position != nil {
		e.Position = strings.TrimSpace(*in.Position)
	}
	if in.Department != nil {
		e.Department = strings.TrimSpace(*in.Department)
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.HireDate != nil {
		parsed, err := parseDate(*in.HireDate)
		if err != nil {
			return &ValidationError{Field: "hireDate", Message: "Hire date must be a valid date"}
		}
		e.HireDate = parsed
	}
	return nil
}

// Validate enforces the full schema on the record. It reports every violated
// rule, not just the first.
func (e Employee) Validate() error {
	var errs ValidationErrors

	if e.FirstName == "" {
		errs = append(errs, ValidationError{Field: "firstName", Message: "First name is required"})
	} else if utf8.RuneCountInString(e.FirstName) > maxNameLength {
		errs = append(errs, ValidationError{Field: "firstName", Message: "First name cannot exceed 50 characters"})
	}

	if e.LastName == "" {
		errs = append(errs, ValidationError{Field: "lastName", Message: "Last name is required"})
	} else if utf8.RuneCountInString(e.LastName) > maxNameLength {
		errs = append(errs, ValidationError{Field: "lastName", Message: "Last name cannot exceed 50 characters"})
	}

	if e.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "Email is required"})
	} else if !emailPattern.MatchString(e.Email) {
		errs = append(errs, ValidationError{Field: "email", Message: "Please enter a valid email."})
	}

	if e.Position == "" {
		errs = append(errs, ValidationError{Field: "position", Message: "Position is required"})
	} else if utf8.RuneCountInString(e.Position) > maxPositionLength {
		errs = append(errs, ValidationError{Field: "position", Message: "Position cannot exceed 100 characters"})
	}

	if e.Department == "" {
		errs = append(errs, ValidationError{Field: "department", Message: "Department is required"})
	} else if utf8.RuneCountInString(e.Department) > maxPositionLength {
		errs = append(errs, ValidationError{Field: "department", Message: "Department cannot exceed 100 characters"})
	}

	if e.Salary < 0 {
		errs = append(errs, ValidationError{Field: "salary", Message: "Salary cannot be negative"})
	}

	if e.HireDate.IsZero() {
		errs = append(errs, ValidationError{Field: "hireDate", Message: "Hire date is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateEmail reports whether the address matches the schema pattern.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidationError describes a single violated schema rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field violations into one error value.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// IsValidation reports whether err is a schema validation failure.
func IsValidation(err error) bool {
	switch err.(type) {
	case *ValidationError, ValidationErrors:
		return true
	}
	return false
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", raw)
}
