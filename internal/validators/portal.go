package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-playground/validator/v10"
)

// Field names accepted by [PortalValidator.Validate].
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUsername = "username"
	FieldRole     = "role"
	FieldApproval = "approved"

	// FieldRecord runs the required-field rules of a catalog record.
	FieldRecord = "record"
	// FieldURLs checks the link fields of a catalog record or patch.
	FieldURLs = "urls"
	// FieldNotEmpty rejects patches that change nothing.
	FieldNotEmpty = "not_empty"
)

const (
	minPasswordLength = 6
	minUsernameLength = 3
	maxUsernameLength = 50
)

// PortalValidator validates the request payloads of the portal API.
type PortalValidator struct {
	engine *validator.Validate
}

func NewPortalValidator() Validator {
	return &PortalValidator{engine: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate dispatches on the dynamic type of obj. Both values and pointers
// are accepted. Without fields every rule of the type runs.
func (v *PortalValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)
	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)
	case models.ResetPasswordRequest:
		return v.checkEmail(value.Email)
	case models.UpdatePasswordRequest:
		return checkPassword(value.Password)
	case models.ApprovalRequest:
		if value.Approved == nil {
			return ErrMissingApproval
		}
		return nil
	case models.UserPatch:
		return v.validateUserPatch(value, fields...)

	case models.Driver:
		return v.validateRecord(value.Name == "", ErrEmptyName, []string{value.DownloadURL}, fields...)
	case models.Guide:
		return v.validateRecord(value.Title == "", ErrEmptyTitle, nil, fields...)
	case models.DisassemblyGuide:
		links := make([]string, 0, len(value.Steps))
		for _, step := range value.Steps {
			links = append(links, step.ImageURL)
		}
		return v.validateRecord(value.Title == "", ErrEmptyTitle, links, fields...)
	case models.Document:
		return v.validateRecord(value.Title == "", ErrEmptyTitle, []string{value.FileURL}, fields...)
	case models.WindowsVersion:
		links := []string{value.DownloadURL}
		for _, d := range value.Drivers {
			links = append(links, d.URL)
		}
		return v.validateRecord(value.Name == "", ErrEmptyName, links, fields...)

	case models.DriverPatch:
		return v.validatePatch(value == models.DriverPatch{}, blank(value.Name), ErrEmptyName, []*string{value.DownloadURL}, fields...)
	case models.GuidePatch:
		return v.validatePatch(value == models.GuidePatch{}, blank(value.Title), ErrEmptyTitle, nil, fields...)
	case models.DisassemblyGuidePatch:
		return v.validatePatch(value == models.DisassemblyGuidePatch{}, blank(value.Title), ErrEmptyTitle, nil, fields...)
	case models.DocumentPatch:
		return v.validatePatch(value == models.DocumentPatch{}, blank(value.Title), ErrEmptyTitle, []*string{value.FileURL}, fields...)
	case models.WindowsVersionPatch:
		return v.validatePatch(value == models.WindowsVersionPatch{}, blank(value.Name), ErrEmptyName, []*string{value.DownloadURL}, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *PortalValidator) validateCredentials(c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := v.checkEmail(c.Email); err != nil {
				return err
			}
		case FieldPassword:
			// existing accounts may predate the length rule
			if c.Password == "" {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *PortalValidator) validateRegister(r models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := v.checkEmail(r.Email); err != nil {
				return err
			}
		case FieldUsername:
			if err := checkUsername(r.Username); err != nil {
				return err
			}
		case FieldPassword:
			if err := checkPassword(r.Password); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *PortalValidator) validateUserPatch(p models.UserPatch, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNotEmpty, FieldUsername, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldNotEmpty:
			if p.Empty() {
				return ErrNoFieldsToUpdate
			}
		case FieldUsername:
			if p.Username != nil {
				if err := checkUsername(*p.Username); err != nil {
					return err
				}
			}
		case FieldRole:
			if p.Role != nil && !p.Role.Valid() {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *PortalValidator) validateRecord(missingRequired bool, requiredErr error, links []string, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecord, FieldURLs}
	}

	for _, f := range fields {
		switch f {
		case FieldRecord:
			if missingRequired {
				return requiredErr
			}
		case FieldURLs:
			for _, link := range links {
				if err := v.checkURL(link); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *PortalValidator) validatePatch(empty, blankRequired bool, requiredErr error, links []*string, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNotEmpty, FieldRecord, FieldURLs}
	}

	for _, f := range fields {
		switch f {
		case FieldNotEmpty:
			if empty {
				return ErrNoFieldsToUpdate
			}
		case FieldRecord:
			if blankRequired {
				return requiredErr
			}
		case FieldURLs:
			for _, link := range links {
				if link == nil {
					continue
				}
				if err := v.checkURL(*link); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *PortalValidator) checkEmail(email string) error {
	if err := v.engine.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// checkURL accepts empty links and absolute http(s) URLs.
func (v *PortalValidator) checkURL(link string) error {
	if link == "" {
		return nil
	}
	if err := v.engine.Var(link, "http_url"); err != nil {
		return ErrInvalidURL
	}
	return nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

func checkUsername(username string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n < minUsernameLength || n > maxUsernameLength {
		return ErrInvalidUsername
	}
	return nil
}

// blank reports whether a patch sets a field to an empty string.
func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
