package dto

type SetImagesRequest struct {
	Paths []string `json:"paths" validate:"required"`
}

type ImagesResponse struct {
	Paths []string `json:"paths"`
}

type SelectPreviewRequest struct {
	Path string `json:"path" validate:"required"`
}

type SurfaceRequest struct {
	Width  int `json:"width" validate:"gte=0"`
	Height int `json:"height" validate:"gte=0"`
}

type SpecResponse struct {
	Text    string  `json:"text"`
	Opacity int     `json:"opacity"`
	Scale   int     `json:"scale"`
	NormX   float64 `json:"norm_x"`
	NormY   float64 `json:"norm_y"`
}

// UpdateSpecRequest carries partial spec updates; absent fields keep
// their current values. Out-of-range values are rejected here, before
// the clamped setters even see them.
type UpdateSpecRequest struct {
	Text    *string  `json:"text"`
	Opacity *int     `json:"opacity" validate:"omitempty,gte=0,lte=100"`
	Scale   *int     `json:"scale" validate:"omitempty,gte=50,lte=300"`
	NormX   *float64 `json:"norm_x" validate:"omitempty,gte=0,lte=1"`
	NormY   *float64 `json:"norm_y" validate:"omitempty,gte=0,lte=1"`
}

type PointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresetRequest struct {
	Position string `json:"position" validate:"required"`
}

type JobConfigRequest struct {
	ExportDir string `json:"export_dir" validate:"required"`
	Format    string `json:"format" validate:"omitempty,oneof=PNG JPEG"`
	NameRule  string `json:"name_rule" validate:"omitempty,oneof=keep prefix suffix"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

type JobConfigResponse struct {
	ExportDir string `json:"export_dir"`
	Format    string `json:"format"`
	NameRule  string `json:"name_rule"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

type ExportFailureItem struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Cause string `json:"cause"`
}

type ExportResponse struct {
	RunID     string              `json:"run_id"`
	Succeeded int                 `json:"succeeded"`
	Failures  []ExportFailureItem `json:"failures"`
}

type SnapshotListResponse struct {
	Names []string `json:"names"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
