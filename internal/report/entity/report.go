package entity

const (
	MaxTitleLength       = 512
	MaxDescriptionLength = 8192
	MaxLogsLength        = 65535
)

// ReportRequest is the document posted to the report endpoint.
// Lengths are counted in characters (runes), not bytes.
type ReportRequest struct {
	BuildFlavor string  `json:"build_flavor"`
	VersionName string  `json:"version_name"`
	Title       string  `json:"report_title" validate:"required,max=512"`
	Description string  `json:"report_description" validate:"required,max=8192"`
	Logs        *string `json:"report_logs,omitempty" validate:"omitempty,max=65535"`
}
