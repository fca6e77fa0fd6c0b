package models

// Hired represents a row in the "hired" table: one employee hire.
//
// Every column but the id is nullable. DepartmentID and JobID point at
// department and job rows by convention only; no foreign key is enforced,
// so a hire may name a department or job that does not exist.
type Hired struct {
	ID           int64
	Name         *string
	Datetime     *string
	DepartmentID *int64
	JobID        *int64
}

// CreateHiredParams holds the fields of one employees CSV line. A nil
// pointer is stored as NULL.
type CreateHiredParams struct {
	ID           int64   `csv:"id"`
	Name         *string `csv:"name"          validate:"omitempty,max=100"`
	Datetime     *string `csv:"datetime"      validate:"omitempty,max=100"`
	DepartmentID *int64  `csv:"department_id"`
	JobID        *int64  `csv:"job_id"`
}
