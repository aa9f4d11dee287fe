package leavetype

type CreateLeaveTypeRequest struct {
	Code                     string  `json:"code" binding:"required"`
	Name                     string  `json:"name" binding:"required"`
	DefaultResolutionType    string  `json:"default_resolution_type" binding:"required,oneof=PAID DEDUCTED COMPENSATED"`
	RequiresDocument         bool    `json:"requires_document"`
	DocumentDeadlineDays     int     `json:"document_deadline_days"`
	CompensationDeadlineDays int     `json:"compensation_deadline_days"`
	HoursToCompensatePerDay  int     `json:"hours_to_compensate_per_day"`
	GeneratesDiscount        bool    `json:"generates_discount"`
	DiscountPercentage       float64 `json:"discount_percentage"`
	AbsenceStatus            string  `json:"absence_status" binding:"required,oneof=ON_VACATION ON_LEAVE"`
}

type LeaveTypeResponse struct {
	ID                       string  `json:"id"`
	Code                     string  `json:"code"`
	Name                     string  `json:"name"`
	DefaultResolutionType    string  `json:"default_resolution_type"`
	RequiresDocument         bool    `json:"requires_document"`
	DocumentDeadlineDays     int     `json:"document_deadline_days"`
	CompensationDeadlineDays int     `json:"compensation_deadline_days"`
	HoursToCompensatePerDay  int     `json:"hours_to_compensate_per_day"`
	GeneratesDiscount        bool    `json:"generates_discount"`
	DiscountPercentage       float64 `json:"discount_percentage"`
	AbsenceStatus            string  `json:"absence_status"`
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                       lt.ID.String(),
		Code:                     lt.Code,
		Name:                     lt.Name,
		DefaultResolutionType:    lt.DefaultResolutionType,
		RequiresDocument:         lt.RequiresDocument,
		DocumentDeadlineDays:     lt.DocumentDeadlineDays,
		CompensationDeadlineDays: lt.CompensationDeadlineDays,
		HoursToCompensatePerDay:  lt.HoursToCompensatePerDay,
		GeneratesDiscount:        lt.GeneratesDiscount,
		DiscountPercentage:       lt.DiscountPercentage,
		AbsenceStatus:            string(lt.AbsenceStatus),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
