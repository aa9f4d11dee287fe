package employee

type CreateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Zone     string `json:"zone"`
	HireDate string `json:"hire_date" binding:"required"`
}

type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
	Reason string `json:"reason"`
}

type EmployeeResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Zone     string `json:"zone,omitempty"`
	Status   string `json:"status"`
	HireDate string `json:"hire_date,omitempty"`
}

type StatusResponse struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Zone:     e.Zone,
		Status:   string(e.Status),
	}
	if !e.HireDate.IsZero() {
		resp.HireDate = e.HireDate.Format("2006-01-02")
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
