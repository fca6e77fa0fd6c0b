package models

import "strconv"

// QuarterlyHires is one (department, job) row of the quarterly hiring
// report. Quarter counters are zero when nobody was hired in that quarter.
type QuarterlyHires struct {
	Department string
	Job        string
	Q1         int64
	Q2         int64
	Q3         int64
	Q4         int64
}

// QuarterlyHiresView is the wire shape of QuarterlyHires: every value is
// rendered as a string.
type QuarterlyHiresView struct {
	Department string `json:"department"`
	Job        string `json:"job"`
	Q1         string `json:"q1"`
	Q2         string `json:"q2"`
	Q3         string `json:"q3"`
	Q4         string `json:"q4"`
}

// View renders the row for the HTTP response.
func (q QuarterlyHires) View() QuarterlyHiresView {
	return QuarterlyHiresView{
		Department: q.Department,
		Job:        q.Job,
		Q1:         strconv.FormatInt(q.Q1, 10),
		Q2:         strconv.FormatInt(q.Q2, 10),
		Q3:         strconv.FormatInt(q.Q3, 10),
		Q4:         strconv.FormatInt(q.Q4, 10),
	}
}

// DepartmentHires is a department together with its all-time hire count.
type DepartmentHires struct {
	ID         int64
	Department string
	Hired      int64
}

// DepartmentHiresView is the wire shape of DepartmentHires.
type DepartmentHiresView struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	Hired      string `json:"hired"`
}

// View renders the row for the HTTP response.
func (d DepartmentHires) View() DepartmentHiresView {
	return DepartmentHiresView{
		ID:         strconv.FormatInt(d.ID, 10),
		Department: d.Department,
		Hired:      strconv.FormatInt(d.Hired, 10),
	}
}
