package model

import "time"

// Phone is a catalog listing. Prices are whole Naira.
type Phone struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand"`
	RAM             int       `json:"ram"`
	ROM             int       `json:"rom"`
	Color           string    `json:"color"`
	Battery         int       `json:"battery"`
	Camera          int       `json:"camera"`
	FrontCamera     int       `json:"frontCamera"`
	MarketPrice     int       `json:"marketPrice"`
	JumiaPrice      int       `json:"jumiaPrice"`
	OUPrice         int       `json:"ouPrice"`
	Description     string    `json:"description"`
	Images          []string  `json:"images"`
	AddedDate       time.Time `json:"addedDate"`
	Condition       string    `json:"condition"`
	OS              *string   `json:"os"`
	SIM             *string   `json:"sim"`
	InspectionVideo *string   `json:"inspectionVideo"`
}

// PrimaryImage returns the first image, or "" when the listing has none.
func (p Phone) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Savings is marketPrice minus ouPrice. It goes negative when the O&U price
// is above the market price; nothing enforces the ordering.
func (p Phone) Savings() int {
	return p.MarketPrice - p.OUPrice
}

// CreatePhoneRequest is the insert payload. Numeric fields are pointers so a
// legitimate zero is distinguishable from a missing field.
type CreatePhoneRequest struct {
	Name            string   `json:"name" binding:"required"`
	Brand           string   `json:"brand" binding:"required"`
	RAM             *int     `json:"ram" binding:"required,gte=0"`
	ROM             *int     `json:"rom" binding:"required,gte=0"`
	Color           string   `json:"color" binding:"required"`
	Battery         *int     `json:"battery" binding:"required,gte=0"`
	Camera          *int     `json:"camera" binding:"required,gte=0"`
	FrontCamera     *int     `json:"frontCamera" binding:"required,gte=0"`
	MarketPrice     *int     `json:"marketPrice" binding:"required,gte=0"`
	JumiaPrice      *int     `json:"jumiaPrice" binding:"required,gte=0"`
	OUPrice         *int     `json:"ouPrice" binding:"required,gte=0"`
	Description     string   `json:"description" binding:"required"`
	Images          []string `json:"images" binding:"required,min=1,dive,required"`
	Condition       string   `json:"condition" binding:"required"`
	OS              *string  `json:"os"`
	SIM             *string  `json:"sim"`
	InspectionVideo *string  `json:"inspectionVideo"`
}

// ToPhone builds an unsaved Phone. ID and AddedDate are assigned on insert.
func (r CreatePhoneRequest) ToPhone() Phone {
	return Phone{
		Name:            r.Name,
		Brand:           r.Brand,
		RAM:             deref(r.RAM),
		ROM:             deref(r.ROM),
		Color:           r.Color,
		Battery:         deref(r.Battery),
		Camera:          deref(r.Camera),
		FrontCamera:     deref(r.FrontCamera),
		MarketPrice:     deref(r.MarketPrice),
		JumiaPrice:      deref(r.JumiaPrice),
		OUPrice:         deref(r.OUPrice),
		Description:     r.Description,
		Images:          append([]string(nil), r.Images...),
		Condition:       r.Condition,
		OS:              r.OS,
		SIM:             r.SIM,
		InspectionVideo: r.InspectionVideo,
	}
}

// UpdatePhoneRequest is a partial update. Absent fields are left untouched;
// the nullable fields can be cleared by sending an explicit null.
type UpdatePhoneRequest struct {
	Name            *string          `json:"name,omitempty"`
	Brand           *string          `json:"brand,omitempty"`
	RAM             *int             `json:"ram,omitempty" binding:"omitempty,gte=0"`
	ROM             *int             `json:"rom,omitempty" binding:"omitempty,gte=0"`
	Color           *string          `json:"color,omitempty"`
	Battery         *int             `json:"battery,omitempty" binding:"omitempty,gte=0"`
	Camera          *int             `json:"camera,omitempty" binding:"omitempty,gte=0"`
	FrontCamera     *int             `json:"frontCamera,omitempty" binding:"omitempty,gte=0"`
	MarketPrice     *int             `json:"marketPrice,omitempty" binding:"omitempty,gte=0"`
	JumiaPrice      *int             `json:"jumiaPrice,omitempty" binding:"omitempty,gte=0"`
	OUPrice         *int             `json:"ouPrice,omitempty" binding:"omitempty,gte=0"`
	Description     *string          `json:"description,omitempty"`
	Images          []string         `json:"images,omitempty" binding:"omitempty,min=1,dive,required"`
	Condition       *string          `json:"condition,omitempty"`
	OS              Nullable[string] `json:"os"`
	SIM             Nullable[string] `json:"sim"`
	InspectionVideo Nullable[string] `json:"inspectionVideo"`
}

// Apply copies every supplied field onto p.
func (r UpdatePhoneRequest) Apply(p *Phone) {
	setIf(&p.Name, r.Name)
	setIf(&p.Brand, r.Brand)
	setIf(&p.RAM, r.RAM)
	setIf(&p.ROM, r.ROM)
	setIf(&p.Color, r.Color)
	setIf(&p.Battery, r.Battery)
	setIf(&p.Camera, r.Camera)
	setIf(&p.FrontCamera, r.FrontCamera)
	setIf(&p.MarketPrice, r.MarketPrice)
	setIf(&p.JumiaPrice, r.JumiaPrice)
	setIf(&p.OUPrice, r.OUPrice)
	setIf(&p.Description, r.Description)
	setIf(&p.Condition, r.Condition)
	if r.Images != nil {
		p.Images = append([]string(nil), r.Images...)
	}
	if r.OS.Set {
		p.OS = r.OS.Value
	}
	if r.SIM.Set {
		p.SIM = r.SIM.Value
	}
	if r.InspectionVideo.Set {
		p.InspectionVideo = r.InspectionVideo.Value
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
