package customvalidator

import (
	"regexp"
	"strings"

	"solarforyou/internal/authz"

	"github.com/go-playground/validator/v10"
)

var (
	polishPhoneRegex = regexp.MustCompile(`^(\+48)?\s?\d{3}[\s-]?\d{3}[\s-]?\d{3}$`)
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hexColorRegex    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// RegisterCustomValidations регистрирует правила pesel, pl_phone, privilege_token, hex_color и email.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"pesel":           isValidPesel,
		"pl_phone":        isPolishPhone,
		"privilege_token": isPrivilegeToken,
		"hex_color":       isHexColor,
		"email":           isGoodEmailFormat,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var peselWeights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// ValidPesel проверяет длину, цифры и контрольную сумму номера PESEL.
func ValidPesel(pesel string) bool {
	if len(pesel) != 11 {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		c := pesel[i]
		if c < '0' || c > '9' {
			return false
		}
		if i < 10 {
			sum += int(c-'0') * peselWeights[i]
		}
	}
	control := (10 - sum%10) % 10
	return control == int(pesel[10]-'0')
}

func isValidPesel(fl validator.FieldLevel) bool {
	return ValidPesel(fl.Field().String())
}

func isPolishPhone(fl validator.FieldLevel) bool {
	return polishPhoneRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// строка вида "view_projects,add_projects"; пустая строка допустима
func isPrivilegeToken(fl validator.FieldLevel) bool {
	for _, token := range strings.Split(fl.Field().String(), ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if strings.ContainsAny(token, " \t") {
			return false
		}
	}
	return true
}

func isHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// UnknownPrivileges возвращает токены, которых нет в каталоге.
func UnknownPrivileges(p authz.Privileges) []string {
	var unknown []string
	for _, token := range p.List() {
		if !authz.IsKnown(token) {
			unknown = append(unknown, token)
		}
	}
	return unknown
}
