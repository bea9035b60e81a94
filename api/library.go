package api

// ImageInfo is the wire shape of a single image's metadata.
type ImageInfo struct {
	Path             string            `json:"path"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	Format           string            `json:"format"`
	Mode             string            `json:"mode"`
	Fields           map[string]string `json:"fields,omitempty"`
	Caption          string            `json:"caption"`
	CaptionHTML      string            `json:"caption_html,omitempty"`
	GenerationParams string            `json:"generation_params,omitempty"`
	FileSize         int64             `json:"file_size"`
	CreatedAt        string            `json:"created_at"`
	ModifiedAt       string            `json:"modified_at"`
	PendingCaption   bool              `json:"pending_caption"`
}

// CaptionUpdate sets or stages a caption for one image.
type CaptionUpdate struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

// BatchRequest runs one batch operation over a set of images.
type BatchRequest struct {
	Operation string   `json:"operation"`
	Paths     []string `json:"paths"`
	DestDir   string   `json:"dest_dir,omitempty"`
	Text      string   `json:"text,omitempty"`
	Search    string   `json:"search,omitempty"`
	Replace   string   `json:"replace,omitempty"`
	MatchCase bool     `json:"match_case,omitempty"`
	Policy    string   `json:"policy,omitempty"`
	Selected  []string `json:"selected,omitempty"`
}

// BatchFailure reports one image that could not be processed.
type BatchFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// BatchResponse reports the outcome of a batch run.
type BatchResponse struct {
	Processed int            `json:"processed"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

// OpenRequest asks the host OS to open an image in an external application.
type OpenRequest struct {
	Path string `json:"path"`
	App  string `json:"app"`
}
