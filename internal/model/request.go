package model

// FetchTimetableRequest is the payload for fetching a live timetable.
type FetchTimetableRequest struct {
	SRN      string `json:"srn" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CompareUser holds one side's portal credentials for a live comparison.
type CompareUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CompareRequest is the payload for comparing two live timetables.
type CompareRequest struct {
	User1 CompareUser `json:"user1" binding:"required"`
	User2 CompareUser `json:"user2" binding:"required"`
}

// CompareStoredRequest is the payload for comparing two stored timetables.
type CompareStoredRequest struct {
	Name1 string `json:"name1" binding:"required"`
	Name2 string `json:"name2" binding:"required"`
}

// ExportLiveICalRequest is the payload for exporting a live timetable as ICS.
type ExportLiveICalRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Start    string `json:"start,omitempty"`
}
