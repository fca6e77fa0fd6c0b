package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/models"
)

func TestParseDepartments(t *testing.T) {
	in := "1,Product Management\n2,Sales\n\n3,\"Research, Development\"\n"

	got, err := ParseDepartments(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []models.CreateDepartmentParams{
		{ID: 1, Name: "Product Management"},
		{ID: 2, Name: "Sales"},
		{ID: 3, Name: "Research, Development"},
	}, got)
}

func TestParseDepartments_LeadingBOM(t *testing.T) {
	got, err := ParseDepartments(strings.NewReader("\ufeff1,Product Management\n2,Sales\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.CreateDepartmentParams{
		{ID: 1, Name: "Product Management"},
		{ID: 2, Name: "Sales"},
	}, got)

	_, err = ParseDepartments(strings.NewReader("\ufeff"))
	assert.True(t, errors.Is(err, ErrNoColumns), "a BOM alone is an empty upload")
}

func TestParseDepartments_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty file", "", "no columns to parse from file"},
		{"only blank lines", "\n\n", "no columns to parse from file"},
		{"missing name", "1,Sales\n2,\n", `line 2: department: value is required`},
		{"NA name", "1,NULL\n", `line 1: department: value is required`},
		{"bad id", "1,Sales\n\nx,Legal\n", `line 3: id: invalid integer "x"`},
		{"fractional id", "1.5,Sales\n", `line 1: id: invalid integer "1.5"`},
		{"too many fields", "1,Sales,extra\n", "line 1: expected 2 fields, saw 3"},
		{"name too long", "1," + strings.Repeat("a", 101) + "\n", `line 1: department: failed "max=100"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDepartments(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}
}

func TestParseDepartments_EmptyIsErrNoColumns(t *testing.T) {
	_, err := ParseDepartments(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoColumns))
}

func TestParseJobs(t *testing.T) {
	got, err := ParseJobs(strings.NewReader("1,Marketing Assistant\r\n2.0,VP Sales\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.CreateJobParams{
		{ID: 1, Name: "Marketing Assistant"},
		{ID: 2, Name: "VP Sales"},
	}, got)
}

func TestParseHired(t *testing.T) {
	in := strings.Join([]string{
		"1,Harold Vogt,2021-11-07T02:48:42Z,2.0,96.0",
		"2,Ty Hofer,2021-05-30T05:43:46Z,8,",
		"3,Lyman Hadye,2021-09-01T23:27:38Z,5,NaN",
		"4,,,,",
		"5,Short Row",
	}, "\n")

	got, err := ParseHired(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, int64(1), got[0].ID)
	require.NotNil(t, got[0].DepartmentID)
	assert.Equal(t, int64(2), *got[0].DepartmentID)
	require.NotNil(t, got[0].JobID)
	assert.Equal(t, int64(96), *got[0].JobID)
	assert.Equal(t, "2021-11-07T02:48:42Z", *got[0].Datetime)

	assert.Nil(t, got[1].JobID, "empty job_id must be absent")
	assert.Nil(t, got[2].JobID, "NaN job_id must be absent")

	assert.Nil(t, got[3].Name)
	assert.Nil(t, got[3].Datetime)
	assert.Nil(t, got[3].DepartmentID)

	require.NotNil(t, got[4].Name)
	assert.Equal(t, "Short Row", *got[4].Name)
	assert.Nil(t, got[4].Datetime)
}

func TestParseHired_Errors(t *testing.T) {
	_, err := ParseHired(strings.NewReader("1,A,2021-01-01T00:00:00Z,1,x\n"))
	require.Error(t, err)
	assert.Equal(t, `line 1: job_id: invalid integer "x"`, err.Error())

	_, err = ParseHired(strings.NewReader(",A,2021-01-01T00:00:00Z,1,1\n"))
	require.Error(t, err)
	assert.Equal(t, `line 1: id: value is required`, err.Error())
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"-3", -3, true},
		{"7.0", 7, true},
		{"1e3", 1000, true},
		{"7.5", 0, false},
		{"abc", 0, false},
		{"inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := parseInt(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
