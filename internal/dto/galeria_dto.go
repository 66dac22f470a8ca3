package dto

// GaleriaImagenRequest adds a picture by URL. Uploaded files go through the
// multipart endpoint instead.
type GaleriaImagenRequest struct {
	URL string `json:"url" validate:"required,url,max=1000"`
	Alt string `json:"alt" validate:"max=200"`
}

type GaleriaImagenResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}
