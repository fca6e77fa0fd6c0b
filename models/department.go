package models

// Department represents a row in the "department" table.
// The id is supplied by the uploader, not generated by the database.
type Department struct {
	ID   int64
	Name string
}

// CreateDepartmentParams holds the fields of one departments CSV line.
type CreateDepartmentParams struct {
	ID   int64  `csv:"id"`
	Name string `csv:"department" validate:"required,max=100"`
}
