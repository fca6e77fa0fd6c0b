package models

// Job represents a row in the "job" table.
type Job struct {
	ID   int64
	Name string
}

// CreateJobParams holds the fields of one jobs CSV line.
type CreateJobParams struct {
	ID   int64  `csv:"id"`
	Name string `csv:"job" validate:"required,max=100"`
}
