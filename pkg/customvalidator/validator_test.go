package customvalidator

import (
	"testing"

	"solarforyou/internal/authz"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPesel(t *testing.T) {
	assert.True(t, ValidPesel("44051401359"))
	assert.True(t, ValidPesel("02070803628"))
	assert.False(t, ValidPesel("44051401358"), "неверная контрольная цифра")
	assert.False(t, ValidPesel("4405140135"), "короткий")
	assert.False(t, ValidPesel("4405140135a"))
}

type employeeInput struct {
	Pesel string `validate:"required,pesel"`
	Phone string `validate:"omitempty,pl_phone"`
	Color string `validate:"omitempty,hex_color"`
	Privs string `validate:"privilege_token"`
}

func TestRegisterCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	ok := employeeInput{Pesel: "44051401359", Phone: "+48 600 700 800", Color: "#1a2B3c", Privs: "view_projects,add_projects"}
	assert.NoError(t, v.Struct(ok))

	bad := employeeInput{Pesel: "12345678901", Phone: "12", Color: "red", Privs: "view projects"}
	err := v.Struct(bad)
	require.Error(t, err)
	errs := err.(validator.ValidationErrors)
	assert.Len(t, errs, 4)
}

func TestUnknownPrivileges(t *testing.T) {
	p := authz.ParsePrivileges("view_projects,fly_to_moon")
	assert.Equal(t, []string{"fly_to_moon"}, UnknownPrivileges(p))
}

type quarterAssignInput struct {
	EmployeeID uint64 `json:"employee_id" validate:"required"`
	Phone      string `json:"phone" validate:"omitempty,pl_phone"`
	Internal   string `validate:"omitempty,hex_color"`
}

func TestEchoValidator_ReportsJSONFieldNames(t *testing.T) {
	ev, err := New()
	require.NoError(t, err)

	assert.NoError(t, ev.Validate(&quarterAssignInput{EmployeeID: 3, Phone: "600-700-800"}))

	err = ev.Validate(&quarterAssignInput{Phone: "12", Internal: "red"})
	require.Error(t, err)
	var fields []string
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"employee_id", "phone", "Internal"}, fields)
}
