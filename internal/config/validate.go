package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError locates a problem in a config source, either by position
// (YAML syntax) or by key (bad value).
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax reports YAML syntax errors in the file at path with their
// position. A missing or blank file is valid.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case errors.Is(err, fs.ErrPermission):
		return &ValidationError{FilePath: path, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return checkYAML(data, path)
}

func checkYAML(data []byte, path string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: path, Message: strings.Join(typeErr.Errors, "; ")}
	}
	line, col, msg := splitYAMLError(err.Error())
	return &ValidationError{FilePath: path, Line: line, Column: col, Message: msg}
}

// yamlErrorPattern matches "yaml: line 5: msg" and "yaml: line 5: column 3: msg".
var yamlErrorPattern = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? (.*)$`)

// splitYAMLError pulls the position out of a yaml.v3 error message. Errors
// without a position come back with line 0 and the message unchanged.
func splitYAMLError(msg string) (line, column int, text string) {
	m := yamlErrorPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, strings.TrimPrefix(msg, "yaml: ")
	}
	line, _ = strconv.Atoi(m[1])
	column = 1
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column, m[3]
}

// ValidateConfigValues checks cfg against its validate tags. Every failing key
// is reported; the returned error unwraps to one *ValidationError per key.
func ValidateConfigValues(cfg *Configuration, source string) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(koanfTagName)

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{FilePath: source, Message: err.Error()}
	}

	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, &ValidationError{
			FilePath: source,
			Field:    keyPath(fe),
			Message:  describe(fe),
		})
	}
	return errors.Join(problems...)
}

// koanfTagName names struct fields by their config key.
func koanfTagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// keyPath turns the namespace "Configuration.review.order" into "review.order".
func keyPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok && path != "" {
		return path
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s (got %q)", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "url":
		return fmt.Sprintf("must be a URL (got %q)", fe.Value())
	}
	return "failed validation: " + fe.Tag()
}
