package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skryldev/hiring-api/apperr"
	"github.com/Skryldev/hiring-api/db"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Code
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), apperr.CodeInternal},
		{"validation", apperr.Validationf("line %d: bad", 2), apperr.CodeValidation},
		{"wrapped", fmt.Errorf("upload: %w", &apperr.Error{Code: apperr.CodeConflict, Message: "dup"}), apperr.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.CodeOf(tt.err))
		})
	}
}

func TestFromDB(t *testing.T) {
	dup := &db.DBError{Sentinel: db.ErrDuplicateKey, Cause: errors.New("UNIQUE constraint failed: job.name")}

	err := apperr.FromDB(fmt.Errorf("repo/job: %w", dup))
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	assert.True(t, db.IsDuplicateKey(err), "cause must stay reachable")
	assert.Equal(t, "repo/job: db: duplicate key: UNIQUE constraint failed: job.name", err.Error())

	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(apperr.FromDB(db.ErrConnectionFailed)))
	assert.Nil(t, apperr.FromDB(nil))

	v := apperr.Validationf("bad")
	assert.Same(t, v, apperr.FromDB(v))
}

func TestError_Message(t *testing.T) {
	e := &apperr.Error{Code: apperr.CodeInternal, Message: "report", Cause: errors.New("timeout")}
	assert.Equal(t, "report: timeout", e.Error())
	assert.Equal(t, "plain", apperr.Validationf("plain").Error())
}
