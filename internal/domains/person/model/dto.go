package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreatePersonRequest struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"` // derived from name when empty
	Bio      string   `json:"bio"`
	ImageURL string   `json:"image_url"`
	Country  string   `json:"country"`
	Tags     []string `json:"tags"`
}

func (r CreatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Bio, validation.Length(0, 10000)),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.Country, validation.Length(0, 100)),
	)
}

// UpdatePersonRequest is a partial update: nil fields are left unchanged.
type UpdatePersonRequest struct {
	Name     *string  `json:"name"`
	Bio      *string  `json:"bio"`
	ImageURL *string  `json:"image_url"`
	Country  *string  `json:"country"`
	Tags     []string `json:"tags"`
}

func (r UpdatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.ImageURL, is.URL),
	)
}

type PersonFilter struct {
	Search string
	Tag    string
	Limit  int
	Offset int
}
