package api

import "net/http"

// Routes returns the service router wrapped in the middleware chain.
// ServeMux answers 405 for a known path with the wrong method.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload_departments", h.handleUploadDepartments)
	mux.HandleFunc("POST /upload_jobs", h.handleUploadJobs)
	mux.HandleFunc("POST /upload_employees", h.handleUploadEmployees)

	mux.HandleFunc("GET /employees_by_job_department", h.handleEmployeesByJobDepartment)
	mux.HandleFunc("GET /count_employees_department", h.handleCountEmployeesDepartment)

	mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	return chain(mux,
		requestID,
		h.logRequests,
		h.recoverer,
	)
}
