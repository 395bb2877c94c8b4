package models

// UploadedImage is an image accepted into a report session.
// Data is held in memory only and never serialized.
type UploadedImage struct {
	Name           string `json:"name"`
	ContentType    string `json:"content_type"`
	SizeBytes      int64  `json:"size_bytes"`
	Data           []byte `json:"-"`
	DetectionLabel string `json:"detection_label,omitempty"`
}
