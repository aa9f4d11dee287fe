package tracking

import "time"

type EntryResponse struct {
	ID            string `json:"id"`
	ParentType    string `json:"parent_type"`
	ParentID      string `json:"parent_id"`
	ActionType    string `json:"action_type"`
	ActorID       string `json:"actor_id"`
	ActorRole     string `json:"actor_role"`
	Timestamp     string `json:"timestamp"`
	Note          string `json:"note,omitempty"`
	PreviousState string `json:"previous_state,omitempty"`
	NewState      string `json:"new_state,omitempty"`
}

func mapToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:            e.ID.String(),
		ParentType:    e.ParentType,
		ParentID:      e.ParentID.String(),
		ActionType:    e.ActionType,
		ActorID:       e.ActorID.String(),
		ActorRole:     e.ActorRole,
		Timestamp:     e.Timestamp.Format(time.RFC3339),
		Note:          e.Note,
		PreviousState: e.PreviousState,
		NewState:      e.NewState,
	}
}

func mapToListResponse(entries []Entry) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp
}
