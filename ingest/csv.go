// Package ingest turns headerless CSV uploads into typed records and writes
// them to the store.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/models"
)

// Column orders of the three uploads. Files carry no header row.
var (
	DepartmentColumns = []string{"id", "department"}
	JobColumns        = []string{"id", "job"}
	HiredColumns      = []string{"id", "name", "datetime", "department_id", "job_id"}
)

// naValues are the tokens read as a missing value, besides the empty field.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// utf8BOM is the byte-order mark spreadsheet exports put before the first
// field.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoColumns is returned for an upload without a single row.
var ErrNoColumns = errors.New("no columns to parse from file")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("csv"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// record is one CSV row. fields may be shorter than the column list; line
// is 1-based.
type record struct {
	line   int
	fields []string
}

// absent reports whether field i is missing or holds an NA token.
func (r record) absent(i int) bool {
	if i >= len(r.fields) {
		return true
	}
	f := r.fields[i]
	if f == "" {
		return true
	}
	_, ok := naValues[f]
	return ok
}

func (r record) optStr(i int) *string {
	if r.absent(i) {
		return nil
	}
	s := r.fields[i]
	return &s
}

func (r record) requiredStr(i int, col string) (string, error) {
	if r.absent(i) {
		return "", apperr.Validationf("line %d: %s: value is required", r.line, col)
	}
	return r.fields[i], nil
}

func (r record) optInt(i int, col string) (*int64, error) {
	if r.absent(i) {
		return nil, nil
	}
	n, err := parseInt(r.fields[i])
	if err != nil {
		return nil, apperr.Validationf("line %d: %s: invalid integer %q", r.line, col, r.fields[i])
	}
	return &n, nil
}

func (r record) requiredInt(i int, col string) (int64, error) {
	n, err := r.optInt(i, col)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, apperr.Validationf("line %d: %s: value is required", r.line, col)
	}
	return *n, nil
}

// parseInt accepts a plain integer or an integral float such as "3.0",
// which is how a numeric column holding missing values gets exported.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int64(f), nil
}

// readRecords reads every row of r. A leading UTF-8 BOM and blank lines are
// skipped. A row longer than columns is an error; shorter rows are padded
// with missing fields.
func readRecords(r io.Reader, columns []string) ([]record, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeValidation, err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) > len(columns) {
			return nil, apperr.Validationf("line %d: expected %d fields, saw %d", line, len(columns), len(fields))
		}
		out = append(out, record{line: line, fields: fields})
	}
	if len(out) == 0 {
		return nil, apperr.Wrap(apperr.CodeValidation, ErrNoColumns)
	}
	return out, nil
}

func validateRecord(line int, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return apperr.Validationf("line %d: %s: failed %q", line, fe.Field(), rule)
	}
	return apperr.Wrap(apperr.CodeValidation, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Parsers
// ─────────────────────────────────────────────────────────────────────────────

// ParseDepartments reads a departments CSV: id, department.
// Both fields are required.
func ParseDepartments(r io.Reader) ([]models.CreateDepartmentParams, error) {
	recs, err := readRecords(r, DepartmentColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.CreateDepartmentParams, 0, len(recs))
	for _, rec := range recs {
		id, err := rec.requiredInt(0, "id")
		if err != nil {
			return nil, err
		}
		name, err := rec.requiredStr(1, "department")
		if err != nil {
			return nil, err
		}
		p := models.CreateDepartmentParams{ID: id, Name: name}
		if err := validateRecord(rec.line, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseJobs reads a jobs CSV: id, job.
func ParseJobs(r io.Reader) ([]models.CreateJobParams, error) {
	recs, err := readRecords(r, JobColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.CreateJobParams, 0, len(recs))
	for _, rec := range recs {
		id, err := rec.requiredInt(0, "id")
		if err != nil {
			return nil, err
		}
		name, err := rec.requiredStr(1, "job")
		if err != nil {
			return nil, err
		}
		p := models.CreateJobParams{ID: id, Name: name}
		if err := validateRecord(rec.line, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseHired reads an employees CSV: id, name, datetime, department_id,
// job_id. Only id is required; the other columns become NULL when missing.
// datetime is kept verbatim.
func ParseHired(r io.Reader) ([]models.CreateHiredParams, error) {
	recs, err := readRecords(r, HiredColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.CreateHiredParams, 0, len(recs))
	for _, rec := range recs {
		id, err := rec.requiredInt(0, "id")
		if err != nil {
			return nil, err
		}
		deptID, err := rec.optInt(3, "department_id")
		if err != nil {
			return nil, err
		}
		jobID, err := rec.optInt(4, "job_id")
		if err != nil {
			return nil, err
		}
		p := models.CreateHiredParams{
			ID:           id,
			Name:         rec.optStr(1),
			Datetime:     rec.optStr(2),
			DepartmentID: deptID,
			JobID:        jobID,
		}
		if err := validateRecord(rec.line, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
