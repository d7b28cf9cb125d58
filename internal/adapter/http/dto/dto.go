package dto

// UpdateIdentifierRequest is the body of POST /pixels/update/{column}/{row}.
type UpdateIdentifierRequest struct {
	Identifier string `json:"identifier" binding:"required,min=1,max=64,display_text"`
}

// PixelPath holds the coordinate path parameters.
type PixelPath struct {
	Column int `uri:"column" binding:"min=0"`
	Row    int `uri:"row" binding:"min=0"`
}

