package sickleave

type CreateSickLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

type ExtendSickLeaveRequest struct {
	Days int `json:"days" binding:"required"`
}

type CancelSickLeaveRequest struct {
	Reason string `json:"reason"`
}

type ObservationRequest struct {
	Note string `json:"note" binding:"required"`
}

type DocumentRequest struct {
	DocumentRef string `json:"document_ref" binding:"required"`
}

type SickLeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Type          string  `json:"type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     int     `json:"total_days"`
	Status        string  `json:"status"`
	SourceLeaveID *string `json:"source_leave_id,omitempty"`
	CreatedBy     string  `json:"created_by"`
}

func mapToResponse(sl SickLeave) SickLeaveResponse {
	resp := SickLeaveResponse{
		ID:         sl.ID.String(),
		EmployeeID: sl.EmployeeID.String(),
		Type:       sl.Type,
		StartDate:  sl.StartDate.Format("2006-01-02"),
		EndDate:    sl.EndDate.Format("2006-01-02"),
		TotalDays:  sl.TotalDays,
		Status:     sl.Status,
		CreatedBy:  sl.CreatedBy.String(),
	}
	if sl.SourceLeaveID != nil {
		v := sl.SourceLeaveID.String()
		resp.SourceLeaveID = &v
	}
	return resp
}

func mapToListResponse(records []SickLeave) []SickLeaveResponse {
	resp := make([]SickLeaveResponse, len(records))
	for i, sl := range records {
		resp[i] = mapToResponse(sl)
	}
	return resp
}
