package leave

import "time"

type SubmitLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

type ApproveLeaveRequest struct {
	ResolutionType *string `json:"resolution_type" binding:"omitempty,oneof=PAID DEDUCTED COMPENSATED"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelLeaveRequest struct {
	Reason string `json:"reason"`
}

type DeliverDocumentRequest struct {
	DocumentRef string `json:"document_ref" binding:"required"`
}

type RegisterCompensationHoursRequest struct {
	Hours int `json:"hours" binding:"required"`
}

type ChangeResolutionRequest struct {
	ResolutionType string `json:"resolution_type" binding:"required,oneof=PAID DEDUCTED COMPENSATED"`
}

type ConvertToSickLeaveRequest struct {
	SickType string `json:"sick_type" binding:"required"`
}

type LeaveResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TotalDays   int    `json:"total_days"`
	Reason      string `json:"reason,omitempty"`

	Status         string `json:"status"`
	ResolutionType string `json:"resolution_type"`

	DocumentDeadline    *string `json:"document_deadline,omitempty"`
	DocumentDeliveredAt *string `json:"document_delivered_at,omitempty"`
	DocumentRef         *string `json:"document_ref,omitempty"`

	CompensationHoursOwed      *int    `json:"compensation_hours_owed,omitempty"`
	CompensationHoursCompleted int     `json:"compensation_hours_completed"`
	CompensationDeadline       *string `json:"compensation_deadline,omitempty"`

	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountAmount     *float64 `json:"discount_amount,omitempty"`
	DiscountPeriod     *string  `json:"discount_period,omitempty"`

	Overdue bool `json:"overdue"`

	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type ConversionResponse struct {
	LeaveID     string `json:"leave_id"`
	LeaveStatus string `json:"leave_status"`
	SickLeaveID string `json:"sick_leave_id"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:                         l.ID.String(),
		EmployeeID:                 l.EmployeeID.String(),
		LeaveTypeID:                l.LeaveTypeID.String(),
		StartDate:                  l.StartDate.Format("2006-01-02"),
		EndDate:                    l.EndDate.Format("2006-01-02"),
		TotalDays:                  l.TotalDays,
		Reason:                     l.Reason,
		Status:                     l.Status,
		ResolutionType:             l.ResolutionType,
		CompensationHoursOwed:      l.CompensationHoursOwed,
		CompensationHoursCompleted: l.CompensationHoursCompleted,
		DiscountPercentage:         l.DiscountPercentage,
		DiscountAmount:             l.DiscountAmount,
		DiscountPeriod:             l.DiscountPeriod,
		Overdue:                    l.Overdue,
		CreatedBy:                  l.CreatedBy.String(),
		DocumentRef:                l.DocumentRef,
		RejectionReason:            l.RejectionReason,
	}
	if l.DocumentDeadline != nil {
		v := l.DocumentDeadline.Format(time.RFC3339)
		resp.DocumentDeadline = &v
	}
	if l.DocumentDeliveredAt != nil {
		v := l.DocumentDeliveredAt.Format(time.RFC3339)
		resp.DocumentDeliveredAt = &v
	}
	if l.CompensationDeadline != nil {
		v := l.CompensationDeadline.Format(time.RFC3339)
		resp.CompensationDeadline = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
