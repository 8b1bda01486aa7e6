package domain

import "time"

// Document is a supporting file staged in the upload dialog.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Location    string    `json:"location"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Upload is a file received from the browser, not yet staged.
type Upload struct {
	Name string
	Data []byte
}
