// Package validation provides input validation utilities
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"unpolished/internal/models"
	"unpolished/pkg/schema"

	"github.com/go-playground/validator/v10"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator with the custom tags registered.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "username", func(fl validator.FieldLevel) bool {
			return ValidateUsername(fl.Field().String()) == nil
		})
		mustRegister(v, "urlorempty", func(fl validator.FieldLevel) bool {
			return IsURLOrEmpty(fl.Field().String())
		})
		mustRegister(v, "blogcontent", func(fl validator.FieldLevel) bool {
			raw, ok := fl.Field().Interface().(json.RawMessage)
			if !ok {
				return false
			}
			return ValidateBlogContent(raw) == nil
		})
		mustRegister(v, "blogstatus", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case schema.BlogStatusDraft, schema.BlogStatusPublished, schema.BlogStatusArchived, schema.BlogStatusScheduled:
				return true
			}
			return false
		})
		mustRegister(v, "commentstatus", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case schema.CommentStatusPending, schema.CommentStatusApproved, schema.CommentStatusRejected, schema.CommentStatusSpam:
				return true
			}
			return false
		})
		engine = v
	})
	return engine
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates v and converts any failures into a VALIDATION_ERROR
// AppError carrying one FieldError per failing field.
func Struct(v interface{}) error {
	err := Engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return models.NewFieldValidationError(fields)
}

// fieldPath drops the top-level struct name from the namespace so that
// nested failures read "expertise[2]" rather than "AuthorProfileInput.expertise[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "username":
		if err := ValidateUsername(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
		return "Invalid username"
	case "urlorempty":
		return name + " must be a valid URL"
	case "blogcontent":
		if raw, ok := fe.Value().(json.RawMessage); ok {
			if err := ValidateBlogContent(raw); err != nil {
				return err.Error()
			}
		}
		return "Invalid content"
	case "blogstatus":
		return "status must be one of DRAFT, PUBLISHED, ARCHIVED, SCHEDULED"
	case "commentstatus":
		return "status must be one of PENDING, APPROVED, REJECTED, SPAM"
	default:
		return fmt.Sprintf("%s failed on %s", name, fe.Tag())
	}
}

// IsURLOrEmpty accepts "" or an absolute http(s) URL.
func IsURLOrEmpty(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MinMarkdownContentLength is the shortest markdown body accepted.
const MinMarkdownContentLength = 10

// ClassifyBlogContent reports how raw should be stored. A JSON string is
// markdown and is returned unquoted; any other JSON object or array is an
// editor block document stored verbatim.
func ClassifyBlogContent(raw json.RawMessage) (format, body string, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", "", errors.New("content is required")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", "", errors.New("content must be a string or a block document")
		}
		return models.ContentFormatMarkdown, s, nil
	case '{', '[':
		if !json.Valid(trimmed) {
			return "", "", errors.New("content must be a string or a block document")
		}
		return models.ContentFormatBlocks, string(trimmed), nil
	default:
		return "", "", errors.New("content must be a string or a block document")
	}
}

// ValidateBlogContent applies the content rules for create and update.
func ValidateBlogContent(raw json.RawMessage) error {
	format, body, err := ClassifyBlogContent(raw)
	if err != nil {
		return err
	}
	if format == models.ContentFormatMarkdown && len([]rune(strings.TrimSpace(body))) < MinMarkdownContentLength {
		return fmt.Errorf("content must be at least %d characters", MinMarkdownContentLength)
	}
	if format == models.ContentFormatBlocks && (body == "{}" || body == "[]") {
		return errors.New("content is required")
	}
	return nil
}
