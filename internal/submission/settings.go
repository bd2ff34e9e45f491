package submission

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"clickform/internal/service"
)

// Kind selects what a submission creates.
type Kind string

const (
	KindTask     Kind = "task"
	KindDocument Kind = "document"
)

const (
	// DefaultTaskName is used when no task name template is configured.
	DefaultTaskName = "New task from {form_name}"

	// DefaultDocumentName is used when no document name template is configured.
	DefaultDocumentName = "New document from {form_name}"

	// DefaultDescription is used when no description template is configured.
	DefaultDescription = "{all_fields}"
)

// Settings is the action configuration chosen by the form author.
// Templates may reference {form_name}, {field_id} and, in Description,
// {all_fields}.
type Settings struct {
	Kind         Kind   `yaml:"kind" json:"kind" validate:"omitempty,oneof=task document"`
	WorkspaceID  string `yaml:"workspace" json:"workspace"`
	SpaceID      string `yaml:"space" json:"space"`
	ListID       string `yaml:"list" json:"list"`
	TaskName     string `yaml:"task_name" json:"task_name"`
	DocumentName string `yaml:"document_name" json:"document_name"`
	Description  string `yaml:"description" json:"description"`
	Status       string `yaml:"status" json:"status"`
	Priority     int    `yaml:"priority" json:"priority" validate:"min=0,max=4"` // 0 means unset
	DueDate      string `yaml:"due_date" json:"due_date"`
	Assignees    string `yaml:"assignees" json:"assignees"`
	CustomFields string `yaml:"custom_fields" json:"custom_fields"`
	FormName     string `yaml:"form_name" json:"form_name"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// ActionKind returns the configured kind, defaulting to task.
func (s Settings) ActionKind() Kind {
	if s.Kind == "" {
		return KindTask
	}
	return s.Kind
}

// Validate checks the settings every action kind needs.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.WorkspaceID) == "" || strings.TrimSpace(s.SpaceID) == "" {
		return service.NewError(service.KindValidation, "Workspace and Space are required.")
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return service.WrapError(service.KindValidation,
				fmt.Sprintf("Invalid %s setting: %v", fe.Field(), fe.Value()), err)
		}
		return service.WrapError(service.KindValidation, err.Error(), err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
